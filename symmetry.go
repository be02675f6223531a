package main

import (
	"encoding/json"
	"fmt"
)

type SymmetryMode int

const (
	SymmetryOff SymmetryMode = iota
	SymmetryHorizontal
	SymmetryVertical
	SymmetryQuad
)

func (m SymmetryMode) String() string {
	switch m {
	case SymmetryHorizontal:
		return "horizontal"
	case SymmetryVertical:
		return "vertical"
	case SymmetryQuad:
		return "quad"
	}
	return "off"
}

func parseSymmetryMode(s string) (SymmetryMode, error) {
	switch s {
	case "off":
		return SymmetryOff, nil
	case "horizontal":
		return SymmetryHorizontal, nil
	case "vertical":
		return SymmetryVertical, nil
	case "quad":
		return SymmetryQuad, nil
	}
	return SymmetryOff, fmt.Errorf("unknown symmetry mode %q", s)
}

func (m SymmetryMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *SymmetryMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mode, err := parseSymmetryMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m SymmetryMode) next() SymmetryMode {
	return (m + 1) % 4
}

// expandSymmetry mirrors each mutation across the axes enabled by the mode.
// Coordinates are deduplicated (a cell on a mirror axis is emitted once) and
// every emitted mutation's Old value is re-sampled from the live canvas: the
// mirrored position was not where the draw originated, so its prior value
// cannot be copied from the source mutation. Callers must therefore expand
// before applying anything to the canvas.
func expandSymmetry(c *Canvas, mutations []Mutation, mode SymmetryMode) []Mutation {
	if mode == SymmetryOff {
		return mutations
	}

	seen := make(map[[2]int]bool, len(mutations)*4)
	out := make([]Mutation, 0, len(mutations)*4)

	for _, m := range mutations {
		coords := [][2]int{{m.X, m.Y}}
		mx := c.Width - 1 - m.X
		my := c.Height - 1 - m.Y
		switch mode {
		case SymmetryHorizontal:
			coords = append(coords, [2]int{mx, m.Y})
		case SymmetryVertical:
			coords = append(coords, [2]int{m.X, my})
		case SymmetryQuad:
			coords = append(coords, [2]int{mx, m.Y}, [2]int{m.X, my}, [2]int{mx, my})
		}

		for _, p := range coords {
			if seen[p] {
				continue
			}
			old, ok := c.Get(p[0], p[1])
			if !ok {
				continue
			}
			seen[p] = true
			out = append(out, Mutation{X: p[0], Y: p[1], Old: old, New: m.New})
		}
	}
	return out
}
