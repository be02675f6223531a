package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

type ColorFormat int

const (
	ColorTrueColor ColorFormat = iota
	Color256
	Color16
)

func parseColorFormat(s string) (ColorFormat, error) {
	switch s {
	case "truecolor":
		return ColorTrueColor, nil
	case "256":
		return Color256, nil
	case "16":
		return Color16, nil
	}
	return ColorTrueColor, fmt.Errorf("unknown color format %q", s)
}

// toPlainText renders the canvas as bare characters, one line per row.
func toPlainText(c *Canvas) string {
	var b strings.Builder
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			cell, _ := c.Get(x, y)
			b.WriteRune(cell.Ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// toANSI renders the canvas with SGR color sequences at the requested
// depth. True color is emitted as-is; 256 and 16 quantize per cell.
func toANSI(c *Canvas, format ColorFormat) string {
	var b strings.Builder
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			cell, _ := c.Get(x, y)
			if cell.Fg.Valid {
				b.WriteString(fgSequence(cell.Fg, format))
			}
			if cell.Bg.Valid {
				b.WriteString(bgSequence(cell.Bg, format))
			}
			b.WriteRune(cell.Ch)
			if cell.Fg.Valid || cell.Bg.Valid {
				b.WriteString("\x1b[0m")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func fgSequence(c Color, format ColorFormat) string {
	switch format {
	case Color256:
		return fmt.Sprintf("\x1b[38;5;%dm", nearestIndexed(c, 256))
	case Color16:
		idx := nearestIndexed(c, 16)
		if idx < 8 {
			return fmt.Sprintf("\x1b[%dm", 30+idx)
		}
		return fmt.Sprintf("\x1b[%dm", 90+idx-8)
	default:
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
	}
}

func bgSequence(c Color, format ColorFormat) string {
	switch format {
	case Color256:
		return fmt.Sprintf("\x1b[48;5;%dm", nearestIndexed(c, 256))
	case Color16:
		idx := nearestIndexed(c, 16)
		if idx < 8 {
			return fmt.Sprintf("\x1b[%dm", 40+idx)
		}
		return fmt.Sprintf("\x1b[%dm", 100+idx-8)
	default:
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
	}
}

// copyToClipboard places export content on the system clipboard.
func copyToClipboard(content string) error {
	return clipboard.WriteAll(content)
}

// exportPNG rasterizes the canvas to a PNG file, one monospace cell per
// grid position.
func exportPNG(c *Canvas, filename string) error {
	const (
		cellWidth  = 10.0
		cellHeight = 20.0
		fontSize   = 18.0
	)

	imageWidth := int(float64(c.Width) * cellWidth)
	imageHeight := int(float64(c.Height) * cellHeight)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.Black)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			cell, _ := c.Get(x, y)
			px := float64(x) * cellWidth
			py := float64(y) * cellHeight

			if cell.Bg.Valid {
				dc.SetRGB255(int(cell.Bg.R), int(cell.Bg.G), int(cell.Bg.B))
				dc.DrawRectangle(px, py, cellWidth, cellHeight)
				dc.Fill()
			}
			if cell.Ch == BlockEmpty {
				continue
			}

			fg := colorWhite
			if cell.Fg.Valid {
				fg = cell.Fg
			}
			dc.SetRGB255(int(fg.R), int(fg.G), int(fg.B))

			// The full block renders as a solid rect; glyph rendering at
			// small sizes leaves hairline gaps between adjacent cells.
			if cell.Ch == BlockFull {
				dc.DrawRectangle(px, py, cellWidth, cellHeight)
				dc.Fill()
				continue
			}
			dc.DrawStringAnchored(string(cell.Ch), px+cellWidth/2, py+cellHeight/2, 0.5, 0.5)
		}
	}

	return dc.SavePNG(filename)
}
