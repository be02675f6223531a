package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Exit codes: usage and data errors exit 1, internal failures exit 2.
const (
	exitUsageError    = 1
	exitInternalError = 2
)

var rootCmd = &cobra.Command{
	Use:   "kakukuma [file.kaku]",
	Short: "Terminal ANSI art editor",
	Long:  "kakukuma is a block-character drawing editor. Run with no arguments or a .kaku file to open the interactive editor, or use a subcommand for scripted editing.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := ""
		if len(args) == 1 {
			file = args[0]
		}
		runTUI(file)
	},
}

var (
	newWidth  int
	newHeight int
	newSize   string
	newForce  bool
)

var newCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Create a new .kaku project file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		w, h := newWidth, newHeight
		if newSize != "" {
			var err error
			w, h, err = parseSize(newSize)
			if err != nil {
				cliError(err.Error())
			}
		}
		if _, err := os.Stat(file); err == nil && !newForce {
			cliError(fmt.Sprintf("'%s' already exists. Use --force to overwrite.", file))
		}

		w = clampDim(w)
		h = clampDim(h)
		project := NewProject(projectNameFromPath(file), NewCanvas(w, h), colorWhite, SymmetryOff)
		if err := project.SaveAtomic(file); err != nil {
			internalError(fmt.Sprintf("Failed to create '%s': %v", file, err))
		}
		if err := initLog(logPath(file)); err != nil {
			internalError(fmt.Sprintf("Failed to initialize log: %v", err))
		}

		printJSON(map[string]any{"created": file, "width": w, "height": h})
	},
}

var undoCount int

var undoCmd = &cobra.Command{
	Use:   "undo <file>",
	Short: "Undo the last CLI operation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		undone, err := popForUndo(logPath(file), undoCount)
		if err != nil {
			cliError(err.Error())
		}

		project := cliLoadProject(file)
		cellsRestored := 0
		for _, entry := range undone {
			for _, m := range entry.Mutations {
				project.Canvas.Set(m.X, m.Y, m.Old)
				cellsRestored++
			}
		}
		if err := project.SaveAtomic(file); err != nil {
			internalError(fmt.Sprintf("Failed to save '%s': %v", file, err))
		}

		printJSON(map[string]any{"ok": true, "undone": len(undone), "cells_restored": cellsRestored})
	},
}

var redoCount int

var redoCmd = &cobra.Command{
	Use:   "redo <file>",
	Short: "Redo the last undone CLI operation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		redone, err := pushForRedo(logPath(file), redoCount)
		if err != nil {
			cliError(err.Error())
		}

		project := cliLoadProject(file)
		cellsApplied := 0
		for _, entry := range redone {
			for _, m := range entry.Mutations {
				project.Canvas.Set(m.X, m.Y, m.New)
				cellsApplied++
			}
		}
		if err := project.SaveAtomic(file); err != nil {
			internalError(fmt.Sprintf("Failed to save '%s': %v", file, err))
		}

		printJSON(map[string]any{"ok": true, "redone": len(redone), "cells_applied": cellsApplied})
	},
}

var historyFull bool

var historyCmd = &cobra.Command{
	Use:   "history <file>",
	Short: "Show the operation log",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		header, entries, err := readLog(logPath(args[0]))
		if err != nil {
			cliError(err.Error())
		}

		if len(entries) == 0 {
			printJSONPretty(map[string]any{
				"pointer": 0,
				"total":   0,
				"entries": []any{},
				"message": "No operations recorded",
			})
			return
		}

		entriesJSON := make([]any, 0, len(entries))
		for i, e := range entries {
			item := map[string]any{
				"index":          i,
				"active":         i < header.Pointer,
				"timestamp":      e.Timestamp,
				"command":        e.Command,
				"mutation_count": len(e.Mutations),
			}
			if historyFull {
				muts := make([]any, 0, len(e.Mutations))
				for _, m := range e.Mutations {
					muts = append(muts, map[string]any{"x": m.X, "y": m.Y, "old": m.Old, "new": m.New})
				}
				item["mutations"] = muts
			}
			entriesJSON = append(entriesJSON, item)
		}

		printJSONPretty(map[string]any{
			"pointer": header.Pointer,
			"total":   header.Total,
			"entries": entriesJSON,
		})
	},
}

func init() {
	newCmd.Flags().IntVar(&newWidth, "width", defaultCanvasWidth, "Canvas width (8-128)")
	newCmd.Flags().IntVar(&newHeight, "height", defaultCanvasHeight, "Canvas height (8-128)")
	newCmd.Flags().StringVar(&newSize, "size", "", "Canvas size as WxH (e.g. 32x24)")
	newCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite an existing file")

	undoCmd.Flags().IntVar(&undoCount, "count", 1, "Number of operations to undo")
	redoCmd.Flags().IntVar(&redoCount, "count", 1, "Number of operations to redo")
	historyCmd.Flags().BoolVar(&historyFull, "full", false, "Show full mutation details")

	rootCmd.AddCommand(newCmd, drawCmd, previewCmd, inspectCmd, exportCmd, diffCmd, statsCmd, undoCmd, redoCmd, historyCmd)
}

// --- parsers ---

func parseCoord(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected X,Y format, got '%s'", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid X coordinate: '%s'", parts[0])
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid Y coordinate: '%s'", parts[1])
	}
	return x, y, nil
}

func parseRegion(s string) (x1, y1, x2, y2 int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("expected X1,Y1,X2,Y2 format, got '%s'", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		vals[i], err = strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("invalid region value: '%s'", p)
		}
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

func parseSize(s string) (int, int, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected WxH format (e.g. 32x24), got '%s'", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width: '%s'", parts[0])
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height: '%s'", parts[1])
	}
	return w, h, nil
}

// --- helpers ---

func projectNameFromPath(path string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(path, projectExt), "/")
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if base == "" {
		return "untitled"
	}
	return base
}

func cliLoadProject(path string) *Project {
	if _, err := os.Stat(path); err != nil {
		cliError(fmt.Sprintf("File not found: '%s'", path))
	}
	project, err := loadProjectFile(path)
	if err != nil {
		internalError(fmt.Sprintf("Failed to load '%s': %v", path, err))
	}
	return project
}

func cliError(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(exitUsageError)
}

func internalError(msg string) {
	fmt.Fprintf(os.Stderr, "Internal error: %s\n", msg)
	os.Exit(exitInternalError)
}

func printJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		internalError(fmt.Sprintf("Failed to encode JSON: %v", err))
	}
	fmt.Println(string(data))
}

func printJSONPretty(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		internalError(fmt.Sprintf("Failed to encode JSON: %v", err))
	}
	fmt.Println(string(data))
}
