package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ColorFormat
		ok   bool
	}{
		{"truecolor", ColorTrueColor, true},
		{"256", Color256, true},
		{"16", Color16, true},
		{"24bit", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := parseColorFormat(tt.in)
		if tt.ok {
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		} else {
			assert.Error(t, err)
		}
	}
}

func TestToPlainText(t *testing.T) {
	c := NewCanvas(8, 8)
	c.Set(0, 0, Cell{Ch: BlockFull, Fg: colorWhite})
	c.Set(2, 1, Cell{Ch: BlockShadeLight, Fg: colorWhite})

	out := toPlainText(c)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "█       ", lines[0])
	assert.Equal(t, "  ░     ", lines[1])
}

func TestToANSITrueColorSequences(t *testing.T) {
	c := NewCanvas(8, 8)
	c.Set(0, 0, Cell{Ch: BlockFull, Fg: rgb(255, 128, 0), Bg: rgb(1, 2, 3)})

	out := toANSI(c, ColorTrueColor)
	assert.Contains(t, out, "\x1b[38;2;255;128;0m")
	assert.Contains(t, out, "\x1b[48;2;1;2;3m")
	assert.Contains(t, out, "\x1b[0m")
}

func TestToANSIUncoloredCellsCarryNoSequences(t *testing.T) {
	c := NewCanvas(8, 8)
	out := toANSI(c, ColorTrueColor)
	assert.NotContains(t, out, "\x1b[")
}

func TestToANSI256Quantizes(t *testing.T) {
	c := NewCanvas(8, 8)
	c.Set(0, 0, Cell{Ch: BlockFull, Fg: rgb(255, 255, 255)})

	out := toANSI(c, Color256)
	assert.Contains(t, out, "\x1b[38;5;15m")
	assert.NotContains(t, out, "38;2;")
}

func TestToANSI16UsesBasicCodes(t *testing.T) {
	c := NewCanvas(8, 8)
	c.Set(0, 0, Cell{Ch: BlockFull, Fg: rgb(0, 0, 0), Bg: rgb(255, 255, 255)})

	out := toANSI(c, Color16)
	assert.Contains(t, out, "\x1b[30m")
	assert.Contains(t, out, "\x1b[107m")
}

func TestExportPNGWritesFile(t *testing.T) {
	c := NewCanvas(8, 8)
	c.Set(0, 0, Cell{Ch: BlockFull, Fg: rgb(255, 0, 0)})
	c.Set(1, 0, Cell{Ch: BlockShadeMedium, Fg: rgb(0, 255, 0), Bg: rgb(0, 0, 255)})

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, exportPNG(c, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// PNG magic bytes.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}
