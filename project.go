package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	projectExt     = ".kaku"
	autosaveSuffix = ".autosave"
)

// Project is the on-disk unit: the canvas plus the minimal metadata the
// editors need to resume (name, active color, symmetry mode).
type Project struct {
	Name     string
	Canvas   *Canvas
	Color    Color
	Symmetry SymmetryMode
}

type projectFile struct {
	Name     string       `json:"name"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Color    Color        `json:"color"`
	Symmetry SymmetryMode `json:"symmetry"`
	Cells    [][]Cell     `json:"cells"`
}

func NewProject(name string, canvas *Canvas, color Color, symmetry SymmetryMode) *Project {
	return &Project{Name: name, Canvas: canvas, Color: color, Symmetry: symmetry}
}

func loadProjectFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw projectFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", path, err)
	}

	canvas := NewCanvas(raw.Width, raw.Height)
	canvas.Replace(raw.Cells, raw.Width, raw.Height)
	return &Project{
		Name:     raw.Name,
		Canvas:   canvas,
		Color:    raw.Color,
		Symmetry: raw.Symmetry,
	}, nil
}

func (p *Project) marshal() ([]byte, error) {
	raw := projectFile{
		Name:     p.Name,
		Width:    p.Canvas.Width,
		Height:   p.Canvas.Height,
		Color:    p.Color,
		Symmetry: p.Symmetry,
		Cells:    p.Canvas.Cells(),
	}
	return json.MarshalIndent(raw, "", " ")
}

// SaveTo writes the project directly, used for autosave files where a torn
// write only costs the recovery copy.
func (p *Project) SaveTo(path string) error {
	data, err := p.marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SaveAtomic writes through a temp file and rename so a crash mid-save
// cannot leave a half-written project.
func (p *Project) SaveAtomic(path string) error {
	data, err := p.marshal()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// listKakuFiles names the .kaku files in a directory, sorted.
func listKakuFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(name, projectExt) {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files
}

func autosavePath(projectPath string) string {
	if projectPath == "" {
		projectPath = "untitled" + projectExt
	}
	return projectPath + autosaveSuffix
}

// findAutosave returns the first autosave file in the directory, if any.
func findAutosave(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), autosaveSuffix) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0])
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
