package main

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Block characters available for drawing.
const (
	BlockEmpty       = ' '
	BlockFull        = '█'
	BlockUpperHalf   = '▀'
	BlockLowerHalf   = '▄'
	BlockLeftHalf    = '▌'
	BlockRightHalf   = '▐'
	BlockShadeLight  = '░'
	BlockShadeMedium = '▒'
	BlockShadeDark   = '▓'
	BlockQuadTL      = '▘'
	BlockQuadTR      = '▝'
	BlockQuadBL      = '▖'
	BlockQuadBR      = '▗'
)

var blockChars = []rune{
	BlockFull,
	BlockUpperHalf,
	BlockLowerHalf,
	BlockLeftHalf,
	BlockRightHalf,
	BlockShadeLight,
	BlockShadeMedium,
	BlockShadeDark,
	BlockQuadTL,
	BlockQuadTR,
	BlockQuadBL,
	BlockQuadBR,
	BlockEmpty,
}

// Color is an optional true-color value. The zero value means "no color".
type Color struct {
	R, G, B uint8
	Valid   bool
}

func rgb(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Valid: true}
}

var (
	colorWhite = rgb(255, 255, 255)
	colorBlack = rgb(0, 0, 0)
)

// Hex returns the color as "#RRGGBB". Empty string if the color is unset.
func (c Color) Hex() string {
	if !c.Valid {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func parseHexColor(s string) (Color, bool) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, false
	}
	return rgb(r, g, b), true
}

// MarshalJSON encodes the color as a "#RRGGBB" string, or null when unset.
func (c Color) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*c = Color{}
		return nil
	}
	parsed, ok := parseHexColor(*s)
	if !ok {
		return fmt.Errorf("invalid color %q", *s)
	}
	*c = parsed
	return nil
}

// Cell is one grid position: a block character plus optional colors.
// Cells are value types, compared structurally and copied, never aliased.
type Cell struct {
	Ch rune
	Fg Color
	Bg Color
}

func emptyCell() Cell {
	return Cell{Ch: BlockEmpty}
}

func (c Cell) IsEmpty() bool {
	return c.Ch == BlockEmpty && !c.Fg.Valid && !c.Bg.Valid
}

type cellJSON struct {
	Ch string `json:"ch"`
	Fg Color  `json:"fg"`
	Bg Color  `json:"bg"`
}

// MarshalJSON writes the portable form: the character as a one-rune string
// and colors as hex strings or null. Internal layout never reaches disk.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(cellJSON{Ch: string(c.Ch), Fg: c.Fg, Bg: c.Bg})
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw cellJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	runes := []rune(raw.Ch)
	if len(runes) != 1 {
		return fmt.Errorf("cell character must be a single rune, got %q", raw.Ch)
	}
	c.Ch = runes[0]
	c.Fg = raw.Fg
	c.Bg = raw.Bg
	return nil
}

// color256Table holds the xterm-256 palette: 16 base colors, a 6x6x6 cube
// and a 24-step grayscale ramp.
var color256Table = buildColor256Table()

func buildColor256Table() [256]Color {
	var table [256]Color
	base := []Color{
		rgb(0, 0, 0), rgb(205, 0, 0), rgb(0, 205, 0), rgb(205, 205, 0),
		rgb(0, 0, 238), rgb(205, 0, 205), rgb(0, 205, 205), rgb(229, 229, 229),
		rgb(127, 127, 127), rgb(255, 0, 0), rgb(0, 255, 0), rgb(255, 255, 0),
		rgb(92, 92, 255), rgb(255, 0, 255), rgb(0, 255, 255), rgb(255, 255, 255),
	}
	copy(table[:16], base)
	levels := []uint8{0, 95, 135, 175, 215, 255}
	i := 16
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				table[i] = rgb(r, g, b)
				i++
			}
		}
	}
	for s := 0; s < 24; s++ {
		v := uint8(8 + s*10)
		table[i] = rgb(v, v, v)
		i++
	}
	return table
}

// nearestIndexed finds the closest entry among the first n palette colors
// using perceptual Lab distance.
func nearestIndexed(c Color, n int) uint8 {
	src := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	best := 0
	bestDist := -1.0
	for i := 0; i < n; i++ {
		p := color256Table[i]
		cand := colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
		d := src.DistanceLab(cand)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return uint8(best)
}
