package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var (
	previewFormat      string
	previewRegion      string
	previewColorFormat string
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a canvas to stdout",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		project := cliLoadProject(args[0])
		canvas := previewCanvas(project.Canvas)

		switch previewFormat {
		case "ansi":
			cf, err := parseColorFormat(previewColorFormat)
			if err != nil {
				cliError(err.Error())
			}
			fmt.Print(toANSI(canvas, cf))
		case "plain":
			fmt.Print(toPlainText(canvas))
		case "json":
			printJSONPretty(jsonPreview(project.Canvas, previewRegion))
		default:
			cliError(fmt.Sprintf("unknown format %q (ansi, plain, json)", previewFormat))
		}
	},
}

var (
	exportOutput      string
	exportFormat      string
	exportColorFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a canvas to a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if exportOutput == "" {
			cliError("--output is required")
		}
		project := cliLoadProject(args[0])

		var content string
		switch exportFormat {
		case "ansi":
			cf, err := parseColorFormat(exportColorFormat)
			if err != nil {
				cliError(err.Error())
			}
			content = toANSI(project.Canvas, cf)
		case "plain":
			content = toPlainText(project.Canvas)
		case "json":
			data, err := json.MarshalIndent(jsonPreview(project.Canvas, ""), "", "  ")
			if err != nil {
				internalError(err.Error())
			}
			content = string(data)
		case "png":
			if err := exportPNG(project.Canvas, exportOutput); err != nil {
				internalError(fmt.Sprintf("PNG export failed: %v", err))
			}
			printJSON(map[string]any{"exported": exportOutput, "format": "png"})
			return
		default:
			cliError(fmt.Sprintf("unknown format %q (ansi, plain, json, png)", exportFormat))
		}

		if err := os.WriteFile(exportOutput, []byte(content), 0644); err != nil {
			internalError(fmt.Sprintf("Export failed: %v", err))
		}
		printJSON(map[string]any{
			"exported":     exportOutput,
			"format":       exportFormat,
			"color_format": exportColorFormat,
		})
	},
}

var (
	inspectRegion string
	inspectRow    int
	inspectCol    int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file> [x,y]",
	Short: "Query canvas cell data",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		project := cliLoadProject(args[0])
		canvas := project.Canvas

		switch {
		case len(args) == 2:
			x, y := mustCoord(args[1])
			validateCoords(x, y, canvas)
			cell, _ := canvas.Get(x, y)
			printJSON(inspectCell(x, y, cell))

		case inspectRegion != "":
			x1, y1, x2, y2, err := parseRegion(inspectRegion)
			if err != nil {
				cliError(err.Error())
			}
			x2 = min(x2, canvas.Width-1)
			y2 = min(y2, canvas.Height-1)
			cells := []any{}
			for y := y1; y <= y2; y++ {
				for x := x1; x <= x2; x++ {
					if cell, ok := canvas.Get(x, y); ok && !cell.IsEmpty() {
						cells = append(cells, inspectCell(x, y, cell))
					}
				}
			}
			printJSON(cells)

		case inspectRow >= 0:
			if inspectRow >= canvas.Height {
				cliError(fmt.Sprintf("Row %d exceeds canvas height (%d)", inspectRow, canvas.Height))
			}
			cells := []any{}
			for x := 0; x < canvas.Width; x++ {
				cell, _ := canvas.Get(x, inspectRow)
				cells = append(cells, inspectCell(x, inspectRow, cell))
			}
			printJSON(cells)

		case inspectCol >= 0:
			if inspectCol >= canvas.Width {
				cliError(fmt.Sprintf("Column %d exceeds canvas width (%d)", inspectCol, canvas.Width))
			}
			cells := []any{}
			for y := 0; y < canvas.Height; y++ {
				cell, _ := canvas.Get(inspectCol, y)
				cells = append(cells, inspectCell(inspectCol, y, cell))
			}
			printJSON(cells)

		default:
			cliError("specify a coordinate, --region, --row, or --col")
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Canvas statistics",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		project := cliLoadProject(args[0])
		canvas := project.Canvas

		totalCells := canvas.Width * canvas.Height
		nonEmpty := 0
		charCounts := map[rune]int{}
		fgCounts := map[string]int{}
		bgCounts := map[string]int{}
		minX, minY := canvas.Width, canvas.Height
		maxX, maxY := 0, 0

		for y := 0; y < canvas.Height; y++ {
			for x := 0; x < canvas.Width; x++ {
				cell, _ := canvas.Get(x, y)
				if cell.IsEmpty() {
					continue
				}
				nonEmpty++
				charCounts[cell.Ch]++
				if cell.Fg.Valid {
					fgCounts[cell.Fg.Hex()]++
				}
				if cell.Bg.Valid {
					bgCounts[cell.Bg.Hex()]++
				}
				minX, minY = min(minX, x), min(minY, y)
				maxX, maxY = max(maxX, x), max(maxY, y)
			}
		}

		fillPct := 0.0
		if totalCells > 0 {
			fillPct = float64(nonEmpty) / float64(totalCells) * 100
		}

		var boundingBox any
		if nonEmpty > 0 {
			boundingBox = map[string]any{"min_x": minX, "min_y": minY, "max_x": maxX, "max_y": maxY}
		}

		hScore, vScore := symmetryScores(canvas)

		printJSONPretty(map[string]any{
			"canvas": map[string]any{
				"width":       canvas.Width,
				"height":      canvas.Height,
				"total_cells": totalCells,
			},
			"fill": map[string]any{
				"empty":        totalCells - nonEmpty,
				"filled":       nonEmpty,
				"fill_percent": round2(fillPct),
			},
			"colors": map[string]any{
				"unique_fg":       len(fgCounts),
				"unique_bg":       len(bgCounts),
				"fg_distribution": distribution(fgCounts, nonEmpty),
				"bg_distribution": distribution(bgCounts, nonEmpty),
			},
			"characters": map[string]any{
				"unique":       len(charCounts),
				"distribution": charDistribution(charCounts, nonEmpty),
			},
			"bounding_box": boundingBox,
			"symmetry_score": map[string]any{
				"horizontal": round2(hScore),
				"vertical":   round2(vScore),
			},
		})
	},
}

var diffBefore bool

var diffCmd = &cobra.Command{
	Use:   "diff <file> [file2]",
	Short: "Compare two canvases, or a canvas against its last operation",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case diffBefore:
			diffAgainstLog(args[0])
		case len(args) == 2:
			diffFiles(args[0], args[1])
		default:
			cliError("specify a second file or use --before")
		}
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewFormat, "format", "ansi", "Output format: ansi, plain, json")
	previewCmd.Flags().StringVar(&previewRegion, "region", "", "Preview subregion (x1,y1,x2,y2)")
	previewCmd.Flags().StringVar(&previewColorFormat, "color-format", "truecolor", "Color depth: truecolor, 256, 16")

	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Output file path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "ansi", "Export format: ansi, plain, json, png")
	exportCmd.Flags().StringVar(&exportColorFormat, "color-format", "truecolor", "Color depth: truecolor, 256, 16")

	inspectCmd.Flags().StringVar(&inspectRegion, "region", "", "Inspect region (x1,y1,x2,y2)")
	inspectCmd.Flags().IntVar(&inspectRow, "row", -1, "Inspect an entire row")
	inspectCmd.Flags().IntVar(&inspectCol, "col", -1, "Inspect an entire column")

	diffCmd.Flags().BoolVar(&diffBefore, "before", false, "Compare current state against the last operation")
}

// previewCanvas extracts the requested subregion, or returns the canvas
// unchanged when no region flag was given.
func previewCanvas(c *Canvas) *Canvas {
	if previewRegion == "" {
		return c
	}
	x1, y1, x2, y2, err := parseRegion(previewRegion)
	if err != nil {
		cliError(err.Error())
	}
	x2 = min(x2, c.Width-1)
	y2 = min(y2, c.Height-1)

	sub := NewCanvas(x2-x1+1, y2-y1+1)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if cell, ok := c.Get(x, y); ok {
				sub.Set(x-x1, y-y1, cell)
			}
		}
	}
	return sub
}

func jsonPreview(c *Canvas, region string) map[string]any {
	x1, y1 := 0, 0
	x2, y2 := c.Width-1, c.Height-1
	if region != "" {
		var err error
		x1, y1, x2, y2, err = parseRegion(region)
		if err != nil {
			cliError(err.Error())
		}
		x2 = min(x2, c.Width-1)
		y2 = min(y2, c.Height-1)
	}

	nonEmpty := 0
	rows := []any{}
	for y := y1; y <= y2; y++ {
		row := []any{}
		for x := x1; x <= x2; x++ {
			cell, ok := c.Get(x, y)
			if !ok {
				continue
			}
			if !cell.IsEmpty() {
				nonEmpty++
			}
			row = append(row, map[string]any{
				"x":    x,
				"y":    y,
				"fg":   nullableHex(cell.Fg),
				"bg":   nullableHex(cell.Bg),
				"char": string(cell.Ch),
			})
		}
		rows = append(rows, row)
	}

	return map[string]any{
		"width":           c.Width,
		"height":          c.Height,
		"cells":           rows,
		"non_empty_count": nonEmpty,
	}
}

func inspectCell(x, y int, cell Cell) map[string]any {
	return map[string]any{
		"x":     x,
		"y":     y,
		"fg":    nullableHex(cell.Fg),
		"bg":    nullableHex(cell.Bg),
		"char":  string(cell.Ch),
		"empty": cell.IsEmpty(),
	}
}

func diffFiles(file1, file2 string) {
	p1 := cliLoadProject(file1)
	p2 := cliLoadProject(file2)
	c1, c2 := p1.Canvas, p2.Canvas

	w := max(c1.Width, c2.Width)
	h := max(c1.Height, c2.Height)

	changes := []any{}
	added, removed, modified, unchanged := 0, 0, 0, 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a, aok := c1.Get(x, y)
			b, bok := c2.Get(x, y)
			if !aok {
				a = emptyCell()
			}
			if !bok {
				b = emptyCell()
			}
			if a == b {
				unchanged++
				continue
			}
			switch {
			case a.IsEmpty() && !b.IsEmpty():
				added++
			case !a.IsEmpty() && b.IsEmpty():
				removed++
			default:
				modified++
			}
			changes = append(changes, map[string]any{
				"x":      x,
				"y":      y,
				"before": diffCell(a),
				"after":  diffCell(b),
			})
		}
	}

	printJSONPretty(map[string]any{
		"changes":   changes,
		"added":     added,
		"removed":   removed,
		"modified":  modified,
		"unchanged": unchanged,
	})
}

// diffAgainstLog reports the last active log entry's mutations as a diff.
func diffAgainstLog(file string) {
	project := cliLoadProject(file)
	entries, err := activeEntries(logPath(file))
	if err != nil {
		cliError(err.Error())
	}
	if len(entries) == 0 {
		cliError("No operations recorded — cannot diff against previous state")
	}

	last := entries[len(entries)-1]
	changes := []any{}
	added, removed, modified := 0, 0, 0

	for _, m := range last.Mutations {
		switch {
		case m.Old.IsEmpty() && !m.New.IsEmpty():
			added++
		case !m.Old.IsEmpty() && m.New.IsEmpty():
			removed++
		default:
			modified++
		}
		changes = append(changes, map[string]any{
			"x":      m.X,
			"y":      m.Y,
			"before": diffCell(m.Old),
			"after":  diffCell(m.New),
		})
	}

	totalCells := project.Canvas.Width * project.Canvas.Height
	printJSONPretty(map[string]any{
		"changes":   changes,
		"added":     added,
		"removed":   removed,
		"modified":  modified,
		"unchanged": totalCells - len(changes),
	})
}

func diffCell(cell Cell) map[string]any {
	return map[string]any{
		"fg":   nullableHex(cell.Fg),
		"bg":   nullableHex(cell.Bg),
		"char": string(cell.Ch),
	}
}

func distribution(counts map[string]int, total int) []any {
	type kv struct {
		key   string
		count int
	}
	sorted := make([]kv, 0, len(counts))
	for k, v := range counts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].key < sorted[j].key
	})

	out := []any{}
	for _, item := range sorted {
		pct := 0.0
		if total > 0 {
			pct = float64(item.count) / float64(total) * 100
		}
		out = append(out, map[string]any{"color": item.key, "count": item.count, "percent": round2(pct)})
	}
	return out
}

func charDistribution(counts map[rune]int, total int) []any {
	type kv struct {
		ch    rune
		count int
	}
	sorted := make([]kv, 0, len(counts))
	for k, v := range counts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].ch < sorted[j].ch
	})

	out := []any{}
	for _, item := range sorted {
		pct := 0.0
		if total > 0 {
			pct = float64(item.count) / float64(total) * 100
		}
		out = append(out, map[string]any{"char": string(item.ch), "count": item.count, "percent": round2(pct)})
	}
	return out
}

// symmetryScores measures how mirror-alike the canvas is on each axis,
// 0.0-1.0. Empty-empty pairs count as matching.
func symmetryScores(c *Canvas) (horizontal, vertical float64) {
	total := c.Width * c.Height
	if total == 0 {
		return 1, 1
	}
	hMatches, vMatches := 0, 0
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			cell, _ := c.Get(x, y)
			hm, _ := c.Get(c.Width-1-x, y)
			vm, _ := c.Get(x, c.Height-1-y)
			if cell == hm {
				hMatches++
			}
			if cell == vm {
				vMatches++
			}
		}
	}
	return float64(hMatches) / float64(total), float64(vMatches) / float64(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
