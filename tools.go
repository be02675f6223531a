package main

type ToolKind int

const (
	ToolPencil ToolKind = iota
	ToolEraser
	ToolLine
	ToolRect
	ToolFill
	ToolEyedropper
)

var allTools = []ToolKind{ToolPencil, ToolEraser, ToolLine, ToolRect, ToolFill, ToolEyedropper}

func (t ToolKind) Name() string {
	switch t {
	case ToolPencil:
		return "Pencil"
	case ToolEraser:
		return "Eraser"
	case ToolLine:
		return "Line"
	case ToolRect:
		return "Rect"
	case ToolFill:
		return "Fill"
	case ToolEyedropper:
		return "Pick"
	}
	return "?"
}

func (t ToolKind) Key() string {
	switch t {
	case ToolPencil:
		return "P"
	case ToolEraser:
		return "E"
	case ToolLine:
		return "L"
	case ToolRect:
		return "R"
	case ToolFill:
		return "F"
	case ToolEyedropper:
		return "I"
	}
	return "?"
}

// The tool functions read the canvas and return mutation lists; they never
// write to the canvas themselves.

// pencil places a single cell, or nothing if the cell is unchanged.
func pencil(c *Canvas, x, y int, cell Cell) []Mutation {
	old, ok := c.Get(x, y)
	if !ok || old == cell {
		return nil
	}
	return []Mutation{{X: x, Y: y, Old: old, New: cell}}
}

// eraser resets a cell to empty.
func eraser(c *Canvas, x, y int) []Mutation {
	return pencil(c, x, y, emptyCell())
}

// bresenhamLine rasterizes the segment between two points. Both endpoints
// are always included and traversing B to A covers the same point set:
// endpoints are canonicalized before stepping so the error tie-breaks
// cannot depend on traversal direction.
func bresenhamLine(x0, y0, x1, y1 int) [][2]int {
	if x1 < x0 || (x1 == x0 && y1 < y0) {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	var points [][2]int

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		points = append(points, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return points
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// line draws a Bresenham segment, skipping out-of-range and unchanged cells.
func line(c *Canvas, x0, y0, x1, y1 int, cell Cell) []Mutation {
	var mutations []Mutation
	for _, p := range bresenhamLine(x0, y0, x1, y1) {
		old, ok := c.Get(p[0], p[1])
		if !ok || old == cell {
			continue
		}
		mutations = append(mutations, Mutation{X: p[0], Y: p[1], Old: old, New: cell})
	}
	return mutations
}

// rectangle draws an outline or filled box between two corners, which may
// be given in any order.
func rectangle(c *Canvas, x0, y0, x1, y1 int, cell Cell, filled bool) []Mutation {
	minX, maxX := min(x0, x1), max(x0, x1)
	minY, maxY := min(y0, y1), max(y0, y1)

	var mutations []Mutation
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			border := x == minX || x == maxX || y == minY || y == maxY
			if !filled && !border {
				continue
			}
			old, ok := c.Get(x, y)
			if !ok || old == cell {
				continue
			}
			mutations = append(mutations, Mutation{X: x, Y: y, Old: old, New: cell})
		}
	}
	return mutations
}

// floodFill replaces the 4-connected region matching the seed cell. The
// fill is iterative with an explicit stack and a visited bitmap so large
// regions cannot blow the call stack or reprocess cells.
func floodFill(c *Canvas, startX, startY int, cell Cell) []Mutation {
	target, ok := c.Get(startX, startY)
	if !ok || target == cell {
		return nil
	}

	visited := make([]bool, c.Width*c.Height)
	stack := [][2]int{{startX, startY}}
	var mutations []Mutation

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p[0], p[1]

		if x < 0 || y < 0 || x >= c.Width || y >= c.Height || visited[y*c.Width+x] {
			continue
		}
		current, _ := c.Get(x, y)
		if current != target {
			continue
		}

		visited[y*c.Width+x] = true
		mutations = append(mutations, Mutation{X: x, Y: y, Old: target, New: cell})

		stack = append(stack, [2]int{x - 1, y}, [2]int{x + 1, y}, [2]int{x, y - 1}, [2]int{x, y + 1})
	}
	return mutations
}

// eyedropper samples a cell without producing mutations.
func eyedropper(c *Canvas, x, y int) (Cell, bool) {
	return c.Get(x, y)
}
