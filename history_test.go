package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyMutations(c *Canvas, muts []Mutation) {
	for _, m := range muts {
		c.Set(m.X, m.Y, m.New)
	}
}

func TestHistoryUndoRedoSingleCell(t *testing.T) {
	c := NewCanvas(16, 16)
	h := NewHistory()

	muts := pencil(c, 3, 3, brush(255, 0, 0))
	applyMutations(c, muts)
	h.Commit(cellChange(muts))

	require.True(t, h.Undo(c))
	got, _ := c.Get(3, 3)
	assert.True(t, got.IsEmpty())

	require.True(t, h.Redo(c))
	got, _ = c.Get(3, 3)
	assert.Equal(t, brush(255, 0, 0), got)
}

func TestHistoryUndoEmptyStacks(t *testing.T) {
	c := NewCanvas(16, 16)
	h := NewHistory()
	assert.False(t, h.Undo(c))
	assert.False(t, h.Redo(c))
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistoryCommitClearsRedo(t *testing.T) {
	c := NewCanvas(16, 16)
	h := NewHistory()

	muts := pencil(c, 1, 1, brush(255, 0, 0))
	applyMutations(c, muts)
	h.Commit(cellChange(muts))
	require.True(t, h.Undo(c))
	require.True(t, h.CanRedo())

	muts = pencil(c, 2, 2, brush(0, 255, 0))
	applyMutations(c, muts)
	h.Commit(cellChange(muts))

	assert.False(t, h.CanRedo(), "a new commit must clear the redo stack")
}

func TestHistoryRejectsEmptyCellChange(t *testing.T) {
	h := NewHistory()
	h.Commit(cellChange(nil))
	assert.False(t, h.CanUndo())
}

func TestHistoryOverlappingMutationsUndoInReverse(t *testing.T) {
	// One action writes the same cell twice. Undo must walk the list
	// backwards so the first Old wins.
	c := NewCanvas(16, 16)
	h := NewHistory()

	first := brush(255, 0, 0)
	second := brush(0, 255, 0)
	action := cellChange([]Mutation{
		{X: 4, Y: 4, Old: emptyCell(), New: first},
		{X: 4, Y: 4, Old: first, New: second},
	})
	c.Set(4, 4, second)
	h.Commit(action)

	require.True(t, h.Undo(c))
	got, _ := c.Get(4, 4)
	assert.True(t, got.IsEmpty())

	require.True(t, h.Redo(c))
	got, _ = c.Get(4, 4)
	assert.Equal(t, second, got)
}

func TestHistoryStrokeBatchesOneAction(t *testing.T) {
	c := NewCanvas(16, 16)
	h := NewHistory()

	h.BeginStroke()
	for x := 0; x < 5; x++ {
		muts := pencil(c, x, 0, brush(255, 0, 0))
		applyMutations(c, muts)
		for _, m := range muts {
			h.PushMutation(m)
		}
	}
	h.EndStroke()

	require.True(t, h.Undo(c))
	for x := 0; x < 5; x++ {
		got, _ := c.Get(x, 0)
		assert.True(t, got.IsEmpty(), "whole stroke should undo as one action")
	}
	assert.False(t, h.CanUndo())
}

func TestHistoryEmptyStrokeCommitsNothing(t *testing.T) {
	h := NewHistory()
	h.BeginStroke()
	h.EndStroke()
	assert.False(t, h.CanUndo())
}

func TestHistoryPushWithoutStrokeCommitsImmediately(t *testing.T) {
	c := NewCanvas(16, 16)
	h := NewHistory()

	h.PushMutation(Mutation{X: 1, Y: 1, Old: emptyCell(), New: brush(255, 0, 0)})
	h.PushMutation(Mutation{X: 2, Y: 2, Old: emptyCell(), New: brush(255, 0, 0)})

	assert.True(t, h.Undo(c))
	assert.True(t, h.Undo(c))
	assert.False(t, h.CanUndo())
}

func TestHistoryBeginStrokeClosesOpenStroke(t *testing.T) {
	h := NewHistory()
	h.BeginStroke()
	h.PushMutation(Mutation{X: 1, Y: 1, Old: emptyCell(), New: brush(255, 0, 0)})
	h.BeginStroke()
	assert.True(t, h.CanUndo(), "reopening a stroke must commit the pending one")
	assert.True(t, h.StrokeActive())
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	c := NewCanvas(16, 16)
	h := NewHistory()

	for i := 0; i < maxHistory+10; i++ {
		h.Commit(cellChange([]Mutation{{X: 0, Y: 0, Old: emptyCell(), New: brush(uint8(i), 0, 0)}}))
	}

	undone := 0
	for h.Undo(c) {
		undone++
	}
	assert.Equal(t, maxHistory, undone)
}

func TestHistorySnapshotUndoRestoresDimensions(t *testing.T) {
	c := NewCanvas(16, 16)
	h := NewHistory()
	c.Set(2, 2, brush(255, 0, 0))

	oldCells, oldW, oldH := c.Cells(), c.Width, c.Height
	c.Resize(32, 8)
	h.Commit(canvasSnapshot(oldCells, oldW, oldH, c.Cells(), 32, 8))

	require.True(t, h.Undo(c))
	assert.Equal(t, 16, c.Width)
	assert.Equal(t, 16, c.Height)
	got, _ := c.Get(2, 2)
	assert.Equal(t, brush(255, 0, 0), got)

	require.True(t, h.Redo(c))
	assert.Equal(t, 32, c.Width)
	assert.Equal(t, 8, c.Height)
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	// Apply a script of actions, undo all, redo all: the end state must
	// match the state after the original applications.
	c := NewCanvas(16, 16)
	h := NewHistory()

	script := []func() []Mutation{
		func() []Mutation { return pencil(c, 1, 1, brush(255, 0, 0)) },
		func() []Mutation { return line(c, 0, 0, 7, 7, brush(0, 255, 0)) },
		func() []Mutation { return rectangle(c, 2, 2, 6, 6, brush(0, 0, 255), false) },
		func() []Mutation { return floodFill(c, 12, 12, brush(99, 99, 99)) },
	}
	for _, step := range script {
		muts := step()
		applyMutations(c, muts)
		h.Commit(cellChange(muts))
	}
	want := c.Cells()

	for h.Undo(c) {
	}
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			cell, _ := c.Get(x, y)
			require.True(t, cell.IsEmpty(), "cell (%d,%d) not restored", x, y)
		}
	}

	for h.Redo(c) {
	}
	assert.Equal(t, want, c.Cells())
}

func TestHistoryInterleavedUndoRedo(t *testing.T) {
	c := NewCanvas(16, 16)
	h := NewHistory()

	for i := 0; i < 4; i++ {
		muts := pencil(c, i, 0, brush(255, 0, 0))
		applyMutations(c, muts)
		h.Commit(cellChange(muts))
	}

	require.True(t, h.Undo(c))
	require.True(t, h.Undo(c))
	require.True(t, h.Redo(c))

	// Three cells set: x = 0, 1, 2.
	for x := 0; x < 4; x++ {
		cell, _ := c.Get(x, 0)
		if x < 3 {
			assert.False(t, cell.IsEmpty(), fmt.Sprintf("x=%d should be set", x))
		} else {
			assert.True(t, cell.IsEmpty(), fmt.Sprintf("x=%d should be empty", x))
		}
	}
}
