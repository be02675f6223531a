package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brush(r, g, b uint8) Cell {
	return Cell{Ch: BlockFull, Fg: rgb(r, g, b)}
}

func TestPencilProducesSingleMutation(t *testing.T) {
	c := NewCanvas(16, 16)
	muts := pencil(c, 3, 4, brush(255, 0, 0))
	require.Len(t, muts, 1)
	assert.Equal(t, 3, muts[0].X)
	assert.Equal(t, 4, muts[0].Y)
	assert.True(t, muts[0].Old.IsEmpty())
	assert.Equal(t, brush(255, 0, 0), muts[0].New)
}

func TestPencilOutOfRangeIsNil(t *testing.T) {
	c := NewCanvas(16, 16)
	assert.Nil(t, pencil(c, -1, 0, brush(255, 0, 0)))
	assert.Nil(t, pencil(c, 16, 0, brush(255, 0, 0)))
	assert.Nil(t, pencil(c, 0, 99, brush(255, 0, 0)))
}

func TestPencilUnchangedCellIsNil(t *testing.T) {
	c := NewCanvas(16, 16)
	c.Set(3, 4, brush(255, 0, 0))
	assert.Nil(t, pencil(c, 3, 4, brush(255, 0, 0)))
}

func TestEraserRestoresEmpty(t *testing.T) {
	c := NewCanvas(16, 16)
	c.Set(3, 4, brush(255, 0, 0))
	muts := eraser(c, 3, 4)
	require.Len(t, muts, 1)
	assert.Equal(t, emptyCell(), muts[0].New)

	// Erasing an already-empty cell does nothing.
	assert.Nil(t, eraser(c, 0, 0))
}

func TestBresenhamLineEndpoints(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		wantLen        int
	}{
		{"single point", 5, 5, 5, 5, 1},
		{"horizontal", 0, 0, 4, 0, 5},
		{"vertical", 2, 1, 2, 6, 6},
		{"perfect diagonal", 0, 0, 4, 4, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := bresenhamLine(tt.x0, tt.y0, tt.x1, tt.y1)
			require.Len(t, points, tt.wantLen)
			assert.Equal(t, [2]int{tt.x0, tt.y0}, points[0])
			assert.Equal(t, [2]int{tt.x1, tt.y1}, points[len(points)-1])
		})
	}
}

func TestBresenhamLineSymmetric(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"shallow", 1, 2, 9, 5},
		{"shallow tie break", 0, 0, 2, 1},
		{"steep tie break", 0, 0, 1, 2},
		{"negative slope", 0, 5, 6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forward := bresenhamLine(tt.x0, tt.y0, tt.x1, tt.y1)
			backward := bresenhamLine(tt.x1, tt.y1, tt.x0, tt.y0)
			assert.Equal(t, forward, backward)
		})
	}

	// Exhaustive sweep: every segment from the origin into a 7x7 grid
	// must cover the same cells in both directions.
	for x := 0; x < 7; x++ {
		for y := 0; y < 7; y++ {
			forward := bresenhamLine(0, 0, x, y)
			backward := bresenhamLine(x, y, 0, 0)
			assert.Equal(t, forward, backward, "(0,0)-(%d,%d)", x, y)
		}
	}
}

func TestLineClipsOutOfRange(t *testing.T) {
	c := NewCanvas(8, 8)
	muts := line(c, 5, 5, 20, 5, brush(0, 255, 0))
	for _, m := range muts {
		assert.Less(t, m.X, c.Width)
	}
	assert.Len(t, muts, 3) // x = 5, 6, 7
}

func TestRectangleOutline(t *testing.T) {
	c := NewCanvas(16, 16)
	muts := rectangle(c, 2, 2, 5, 5, brush(0, 0, 255), false)
	// 4x4 box: 16 cells total, 4 interior.
	assert.Len(t, muts, 12)
	for _, m := range muts {
		border := m.X == 2 || m.X == 5 || m.Y == 2 || m.Y == 5
		assert.True(t, border, "(%d,%d) is not on the border", m.X, m.Y)
	}
}

func TestRectangleFilled(t *testing.T) {
	c := NewCanvas(16, 16)
	muts := rectangle(c, 2, 2, 5, 5, brush(0, 0, 255), true)
	assert.Len(t, muts, 16)
}

func TestRectangleCornersAnyOrder(t *testing.T) {
	c := NewCanvas(16, 16)
	a := rectangle(c, 5, 5, 2, 2, brush(0, 0, 255), true)
	b := rectangle(c, 2, 5, 5, 2, brush(0, 0, 255), true)
	assert.Len(t, a, 16)
	assert.Len(t, b, 16)
}

func TestRectangleDegenerate(t *testing.T) {
	c := NewCanvas(16, 16)
	// A zero-area rectangle is a single cell.
	muts := rectangle(c, 3, 3, 3, 3, brush(0, 0, 255), false)
	assert.Len(t, muts, 1)
	// A 1-wide rectangle is a line either way.
	muts = rectangle(c, 3, 1, 3, 6, brush(0, 0, 255), false)
	assert.Len(t, muts, 6)
}

func TestFloodFillBounded(t *testing.T) {
	c := NewCanvas(16, 16)
	wall := brush(255, 255, 255)
	for _, m := range rectangle(c, 4, 4, 8, 8, wall, false) {
		c.Set(m.X, m.Y, m.New)
	}

	muts := floodFill(c, 6, 6, brush(255, 0, 0))
	// Interior of a 5x5 outline is 3x3.
	assert.Len(t, muts, 9)
	for _, m := range muts {
		assert.GreaterOrEqual(t, m.X, 5)
		assert.LessOrEqual(t, m.X, 7)
		assert.GreaterOrEqual(t, m.Y, 5)
		assert.LessOrEqual(t, m.Y, 7)
	}
}

func TestFloodFillWholeCanvas(t *testing.T) {
	c := NewCanvas(8, 8)
	muts := floodFill(c, 0, 0, brush(1, 2, 3))
	assert.Len(t, muts, 64)
}

func TestFloodFillNoopCases(t *testing.T) {
	c := NewCanvas(8, 8)
	assert.Nil(t, floodFill(c, -1, 0, brush(1, 2, 3)), "out of range seed")

	c.Set(2, 2, brush(1, 2, 3))
	assert.Nil(t, floodFill(c, 2, 2, brush(1, 2, 3)), "seed already matches the fill cell")
}

func TestFloodFillLargeRegionIterative(t *testing.T) {
	// A full maximum-size canvas must fill without recursion depth issues.
	c := NewCanvas(maxCanvasDim, maxCanvasDim)
	muts := floodFill(c, 0, 0, brush(9, 9, 9))
	assert.Len(t, muts, maxCanvasDim*maxCanvasDim)
}

func TestEyedropperSamples(t *testing.T) {
	c := NewCanvas(8, 8)
	want := Cell{Ch: BlockShadeLight, Fg: rgb(7, 8, 9), Bg: rgb(1, 1, 1)}
	c.Set(4, 4, want)

	got, ok := eyedropper(c, 4, 4)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = eyedropper(c, 8, 8)
	assert.False(t, ok)
}
