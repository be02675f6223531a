package main

const (
	minCanvasDim = 8
	maxCanvasDim = 128

	defaultCanvasWidth  = 48
	defaultCanvasHeight = 32
)

func clampDim(v int) int {
	if v < minCanvasDim {
		return minCanvasDim
	}
	if v > maxCanvasDim {
		return maxCanvasDim
	}
	return v
}

// Canvas is the drawing surface: a Width x Height grid of cells. It owns the
// cells and nothing else; history lives elsewhere.
type Canvas struct {
	Width  int
	Height int
	cells  []Cell
}

func NewCanvas(width, height int) *Canvas {
	width = clampDim(width)
	height = clampDim(height)
	c := &Canvas{Width: width, Height: height, cells: make([]Cell, width*height)}
	c.Clear()
	return c
}

// Get returns the cell at (x, y), or ok=false out of range.
func (c *Canvas) Get(x, y int) (Cell, bool) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return Cell{}, false
	}
	return c.cells[y*c.Width+x], true
}

// Set writes the cell at (x, y). Out-of-range writes are silently dropped.
func (c *Canvas) Set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.cells[y*c.Width+x] = cell
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = emptyCell()
	}
}

// Cells returns a row-major copy of the grid, the unit exchanged with the
// history systems for snapshot actions.
func (c *Canvas) Cells() [][]Cell {
	rows := make([][]Cell, c.Height)
	for y := 0; y < c.Height; y++ {
		row := make([]Cell, c.Width)
		copy(row, c.cells[y*c.Width:(y+1)*c.Width])
		rows[y] = row
	}
	return rows
}

// Replace swaps in a new backing grid, e.g. when restoring a snapshot.
// Rows shorter than the given width are padded with empty cells.
func (c *Canvas) Replace(cells [][]Cell, width, height int) {
	width = clampDim(width)
	height = clampDim(height)
	backing := make([]Cell, width*height)
	for i := range backing {
		backing[i] = emptyCell()
	}
	for y := 0; y < height && y < len(cells); y++ {
		for x := 0; x < width && x < len(cells[y]); x++ {
			backing[y*width+x] = cells[y][x]
		}
	}
	c.Width = width
	c.Height = height
	c.cells = backing
}

// Resize rebuilds the grid at the new dimensions, keeping cells in the
// overlapping region and defaulting new area to empty.
func (c *Canvas) Resize(width, height int) {
	c.Replace(c.Cells(), width, height)
}
