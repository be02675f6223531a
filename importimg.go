package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// Image import produces a plain cell grid snapshot; callers commit it to
// history as a CanvasSnapshot action like any other whole-grid edit.

type ImportColorMode int

const (
	ImportColor256 ImportColorMode = iota
	ImportColor16
)

type ImportOptions struct {
	ColorMode  ImportColorMode
	HalfBlocks bool
}

func defaultImportOptions() ImportOptions {
	return ImportOptions{ColorMode: ImportColor256, HalfBlocks: true}
}

// importImage decodes an image file and converts it to a targetWidth x
// targetHeight cell grid, aspect-fit with letterboxing. Half-block mode
// samples two vertical pixels per cell (upper half glyph, fg on top, bg on
// bottom) for double the effective vertical resolution.
func importImage(path string, targetWidth, targetHeight int, opts ImportOptions) ([][]Cell, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("image has zero dimensions")
	}
	if targetWidth <= 0 || targetHeight <= 0 {
		return nil, fmt.Errorf("target dimensions must be greater than zero")
	}

	pxWidth := targetWidth
	pxHeight := targetHeight
	if opts.HalfBlocks {
		pxHeight *= 2
	}

	scaledW, scaledH, offsetX, offsetY := computeFit(bounds.Dx(), bounds.Dy(), pxWidth, pxHeight)

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, bounds, draw.Src, nil)

	// Letterboxed pixel buffer; nil means no pixel (transparent / outside).
	pixels := make([]*Color, pxWidth*pxHeight)
	cache := make(map[Color]Color)
	for y := 0; y < scaledH; y++ {
		for x := 0; x < scaledW; x++ {
			r, g, b, a := scaled.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			q := quantize(rgb(uint8(r>>8), uint8(g>>8), uint8(b>>8)), opts.ColorMode, cache)
			px := x + offsetX
			py := y + offsetY
			pixels[py*pxWidth+px] = &q
		}
	}

	cells := make([][]Cell, targetHeight)
	for cy := 0; cy < targetHeight; cy++ {
		row := make([]Cell, targetWidth)
		for cx := 0; cx < targetWidth; cx++ {
			if opts.HalfBlocks {
				top := pixels[(cy*2)*pxWidth+cx]
				bottom := pixels[(cy*2+1)*pxWidth+cx]
				row[cx] = halfBlockCell(top, bottom)
			} else {
				if p := pixels[cy*pxWidth+cx]; p != nil {
					row[cx] = Cell{Ch: BlockFull, Fg: *p}
				} else {
					row[cx] = emptyCell()
				}
			}
		}
		cells[cy] = row
	}
	return cells, nil
}

// computeFit scales src into dst preserving aspect ratio and returns the
// scaled size plus centering offsets.
func computeFit(srcW, srcH, dstW, dstH int) (w, h, offsetX, offsetY int) {
	scaleX := float64(dstW) / float64(srcW)
	scaleY := float64(dstH) / float64(srcH)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	w = int(float64(srcW) * scale)
	h = int(float64(srcH) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	offsetX = (dstW - w) / 2
	offsetY = (dstH - h) / 2
	return w, h, offsetX, offsetY
}

func quantize(c Color, mode ImportColorMode, cache map[Color]Color) Color {
	if q, ok := cache[c]; ok {
		return q
	}
	n := 256
	if mode == ImportColor16 {
		n = 16
	}
	q := color256Table[nearestIndexed(c, n)]
	cache[c] = q
	return q
}

func halfBlockCell(top, bottom *Color) Cell {
	switch {
	case top == nil && bottom == nil:
		return emptyCell()
	case top != nil && bottom == nil:
		return Cell{Ch: BlockUpperHalf, Fg: *top}
	case top == nil:
		return Cell{Ch: BlockLowerHalf, Fg: *bottom}
	default:
		return Cell{Ch: BlockUpperHalf, Fg: *top, Bg: *bottom}
	}
}
