package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Shared drawing flags, one set per process since exactly one draw
// subcommand runs per invocation.
var (
	drawColor    string
	drawFg       string
	drawBg       string
	drawChar     string
	drawSymmetry string
	drawNoLog    bool
	rectFilled   bool
	eraseRegion  string
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw on a canvas using a tool",
}

var drawPencilCmd = &cobra.Command{
	Use:   "pencil <file> <x,y>",
	Short: "Draw a single cell",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		x, y := mustCoord(args[1])
		project := cliLoadProject(file)
		validateCoords(x, y, project.Canvas)

		mutations := pencil(project.Canvas, x, y, drawCell())
		applyAndSave(file, project, "pencil", mutations, mustSymmetry(), drawNoLog)
	},
}

var drawEraserCmd = &cobra.Command{
	Use:   "eraser <file> [x,y]",
	Short: "Erase a cell or region",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		project := cliLoadProject(file)

		var mutations []Mutation
		if eraseRegion != "" {
			x1, y1, x2, y2, err := parseRegion(eraseRegion)
			if err != nil {
				cliError(err.Error())
			}
			for y := y1; y <= y2; y++ {
				for x := x1; x <= x2; x++ {
					mutations = append(mutations, eraser(project.Canvas, x, y)...)
				}
			}
		} else {
			if len(args) < 2 {
				cliError("specify a coordinate or --region")
			}
			x, y := mustCoord(args[1])
			validateCoords(x, y, project.Canvas)
			mutations = eraser(project.Canvas, x, y)
		}

		applyAndSave(file, project, "eraser", mutations, SymmetryOff, drawNoLog)
	},
}

var drawLineCmd = &cobra.Command{
	Use:   "line <file> <x0,y0> <x1,y1>",
	Short: "Draw a line between two points",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		x0, y0 := mustCoord(args[1])
		x1, y1 := mustCoord(args[2])
		project := cliLoadProject(file)

		mutations := line(project.Canvas, x0, y0, x1, y1, drawCell())
		applyAndSave(file, project, "line", mutations, mustSymmetry(), drawNoLog)
	},
}

var drawRectCmd = &cobra.Command{
	Use:   "rect <file> <x0,y0> <x1,y1>",
	Short: "Draw a rectangle",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		x0, y0 := mustCoord(args[1])
		x1, y1 := mustCoord(args[2])
		project := cliLoadProject(file)

		mutations := rectangle(project.Canvas, x0, y0, x1, y1, drawCell(), rectFilled)
		applyAndSave(file, project, "rect", mutations, mustSymmetry(), drawNoLog)
	},
}

var drawFillCmd = &cobra.Command{
	Use:   "fill <file> <x,y>",
	Short: "Flood fill from a point",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		x, y := mustCoord(args[1])
		project := cliLoadProject(file)
		validateCoords(x, y, project.Canvas)

		mutations := floodFill(project.Canvas, x, y, drawCell())
		applyAndSave(file, project, "fill", mutations, mustSymmetry(), drawNoLog)
	},
}

var drawEyedropperCmd = &cobra.Command{
	Use:   "eyedropper <file> <x,y>",
	Short: "Pick the cell value at a coordinate",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		x, y := mustCoord(args[1])
		project := cliLoadProject(file)

		cell, ok := eyedropper(project.Canvas, x, y)
		if !ok {
			cliError(fmt.Sprintf("Position (%d, %d) is out of bounds", x, y))
		}
		printJSON(map[string]any{
			"x":    x,
			"y":    y,
			"fg":   nullableHex(cell.Fg),
			"bg":   nullableHex(cell.Bg),
			"char": string(cell.Ch),
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{drawPencilCmd, drawLineCmd, drawRectCmd, drawFillCmd} {
		cmd.Flags().StringVar(&drawColor, "color", "", "Foreground color (hex, e.g. #FF0000)")
		cmd.Flags().StringVar(&drawFg, "fg", "", "Foreground color, overrides --color")
		cmd.Flags().StringVar(&drawBg, "bg", "", "Background color")
		cmd.Flags().StringVar(&drawChar, "char", "", "Block character to draw")
		cmd.Flags().StringVar(&drawSymmetry, "symmetry", "off", "Symmetry mode: off, horizontal, vertical, quad")
		cmd.Flags().BoolVar(&drawNoLog, "no-log", false, "Skip the operation log (no undo for this operation)")
	}
	drawRectCmd.Flags().BoolVar(&rectFilled, "filled", false, "Fill the rectangle")
	drawEraserCmd.Flags().StringVar(&eraseRegion, "region", "", "Erase region (x1,y1,x2,y2)")
	drawEraserCmd.Flags().BoolVar(&drawNoLog, "no-log", false, "Skip the operation log (no undo for this operation)")

	drawCmd.AddCommand(drawPencilCmd, drawEraserCmd, drawLineCmd, drawRectCmd, drawFillCmd, drawEyedropperCmd)
}

// applyAndSave expands symmetry against the untouched canvas, applies the
// mutations, records them in the operation log, and atomically rewrites the
// project file.
func applyAndSave(file string, project *Project, toolName string, mutations []Mutation, mode SymmetryMode, noLog bool) {
	mutations = expandSymmetry(project.Canvas, mutations, mode)

	for _, m := range mutations {
		project.Canvas.Set(m.X, m.Y, m.New)
	}

	if !noLog && len(mutations) > 0 {
		if err := appendEntry(logPath(file), makeLogEntry(toolName, mutations)); err != nil {
			internalError(fmt.Sprintf("Failed to write operation log: %v", err))
		}
	}

	if err := project.SaveAtomic(file); err != nil {
		internalError(fmt.Sprintf("Failed to save '%s': %v", file, err))
	}

	printJSON(map[string]any{
		"ok":             true,
		"cells_modified": len(mutations),
		"tool":           toolName,
		"symmetry":       mode.String(),
	})
}

func drawCell() Cell {
	fg, bg := resolveColors()
	ch := rune(BlockFull)
	if drawChar != "" {
		runes := []rune(drawChar)
		if len(runes) != 1 {
			cliError(fmt.Sprintf("--char must be a single character, got '%s'", drawChar))
		}
		ch = runes[0]
	}
	return Cell{Ch: ch, Fg: fg, Bg: bg}
}

func resolveColors() (Color, Color) {
	fgStr := drawFg
	if fgStr == "" {
		fgStr = drawColor
	}
	fg := colorWhite
	if fgStr != "" {
		parsed, ok := parseHexColor(fgStr)
		if !ok {
			cliError(fmt.Sprintf("Invalid hex color '%s'. Expected format: #RRGGBB (e.g. #FF0000)", fgStr))
		}
		fg = parsed
	}
	var bg Color
	if drawBg != "" {
		parsed, ok := parseHexColor(drawBg)
		if !ok {
			cliError(fmt.Sprintf("Invalid hex color '%s'. Expected format: #RRGGBB (e.g. #FF0000)", drawBg))
		}
		bg = parsed
	}
	return fg, bg
}

func mustCoord(s string) (int, int) {
	x, y, err := parseCoord(s)
	if err != nil {
		cliError(err.Error())
	}
	return x, y
}

func mustSymmetry() SymmetryMode {
	mode, err := parseSymmetryMode(drawSymmetry)
	if err != nil {
		cliError(err.Error())
	}
	return mode
}

func validateCoords(x, y int, c *Canvas) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		cliError(fmt.Sprintf("Position (%d, %d) exceeds canvas dimensions (%dx%d)", x, y, c.Width, c.Height))
	}
}

func nullableHex(c Color) any {
	if !c.Valid {
		return nil
	}
	return c.Hex()
}
