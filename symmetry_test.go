package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymmetryModeCycle(t *testing.T) {
	assert.Equal(t, SymmetryHorizontal, SymmetryOff.next())
	assert.Equal(t, SymmetryVertical, SymmetryHorizontal.next())
	assert.Equal(t, SymmetryQuad, SymmetryVertical.next())
	assert.Equal(t, SymmetryOff, SymmetryQuad.next())
}

func TestSymmetryModeJSON(t *testing.T) {
	for _, mode := range []SymmetryMode{SymmetryOff, SymmetryHorizontal, SymmetryVertical, SymmetryQuad} {
		data, err := json.Marshal(mode)
		require.NoError(t, err)

		var got SymmetryMode
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, mode, got)
	}

	var m SymmetryMode
	assert.Error(t, json.Unmarshal([]byte(`"diagonal"`), &m))
}

func TestExpandSymmetryOffPassthrough(t *testing.T) {
	c := NewCanvas(16, 16)
	muts := pencil(c, 2, 5, brush(255, 0, 0))
	expanded := expandSymmetry(c, muts, SymmetryOff)
	assert.Equal(t, muts, expanded)
}

func TestExpandSymmetryHorizontalMirror(t *testing.T) {
	c := NewCanvas(16, 16)
	muts := pencil(c, 2, 5, brush(255, 0, 0))

	expanded := expandSymmetry(c, muts, SymmetryHorizontal)
	require.Len(t, expanded, 2)

	// On a 16-wide canvas, x=2 mirrors to x=13 on the same row.
	assert.Equal(t, [2]int{2, 5}, [2]int{expanded[0].X, expanded[0].Y})
	assert.Equal(t, [2]int{13, 5}, [2]int{expanded[1].X, expanded[1].Y})
	assert.Equal(t, expanded[0].New, expanded[1].New)
}

func TestExpandSymmetryVerticalMirror(t *testing.T) {
	c := NewCanvas(16, 16)
	muts := pencil(c, 2, 5, brush(255, 0, 0))

	expanded := expandSymmetry(c, muts, SymmetryVertical)
	require.Len(t, expanded, 2)
	assert.Equal(t, [2]int{2, 10}, [2]int{expanded[1].X, expanded[1].Y})
}

func TestExpandSymmetryQuadProducesFour(t *testing.T) {
	c := NewCanvas(16, 16)
	muts := pencil(c, 2, 5, brush(255, 0, 0))

	expanded := expandSymmetry(c, muts, SymmetryQuad)
	require.Len(t, expanded, 4)

	got := map[[2]int]bool{}
	for _, m := range expanded {
		got[[2]int{m.X, m.Y}] = true
	}
	assert.True(t, got[[2]int{2, 5}])
	assert.True(t, got[[2]int{13, 5}])
	assert.True(t, got[[2]int{2, 10}])
	assert.True(t, got[[2]int{13, 10}])
}

func TestExpandSymmetryAxisCellDeduplicated(t *testing.T) {
	// Odd dimensions put x=8 on the mirror axis of a 17-wide canvas; the
	// mirror coordinate equals the original and must be emitted once.
	c := NewCanvas(17, 17)
	muts := pencil(c, 8, 3, brush(255, 0, 0))

	expanded := expandSymmetry(c, muts, SymmetryHorizontal)
	assert.Len(t, expanded, 1)

	expanded = expandSymmetry(c, pencil(c, 8, 8, brush(255, 0, 0)), SymmetryQuad)
	assert.Len(t, expanded, 1, "canvas center under quad maps to itself in all quadrants")
}

func TestExpandSymmetryResamplesOldFromCanvas(t *testing.T) {
	c := NewCanvas(16, 16)
	prior := brush(0, 0, 255)
	c.Set(13, 5, prior)

	muts := pencil(c, 2, 5, brush(255, 0, 0))
	expanded := expandSymmetry(c, muts, SymmetryHorizontal)
	require.Len(t, expanded, 2)

	// The mirrored mutation's Old is what was at (13,5), not what was at
	// the source cell.
	assert.Equal(t, prior, expanded[1].Old)
	assert.True(t, expanded[0].Old.IsEmpty())
}

func TestExpandSymmetryUndoRestoresMirrors(t *testing.T) {
	c := NewCanvas(16, 16)
	prior := brush(0, 0, 255)
	c.Set(13, 5, prior)

	h := NewHistory()
	expanded := expandSymmetry(c, pencil(c, 2, 5, brush(255, 0, 0)), SymmetryHorizontal)
	for _, m := range expanded {
		c.Set(m.X, m.Y, m.New)
	}
	h.Commit(cellChange(expanded))

	require.True(t, h.Undo(c))

	got, _ := c.Get(13, 5)
	assert.Equal(t, prior, got)
	got, _ = c.Get(2, 5)
	assert.True(t, got.IsEmpty())
}

func TestExpandSymmetryDedupesOverlappingInputs(t *testing.T) {
	c := NewCanvas(16, 16)
	// Two input mutations whose mirrors collide: (2,5) mirrors to (13,5),
	// which is also a direct input.
	red := brush(255, 0, 0)
	muts := []Mutation{
		{X: 2, Y: 5, Old: emptyCell(), New: red},
		{X: 13, Y: 5, Old: emptyCell(), New: red},
	}
	expanded := expandSymmetry(c, muts, SymmetryHorizontal)
	assert.Len(t, expanded, 2)
}
