package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	width  int
	height int

	project  *Project
	filename string
	history  *History
	config   *Config
	theme    Theme

	mode Mode
	tool ToolKind

	cursorX int
	cursorY int

	// Active mouse stroke for pencil/eraser.
	drawing bool

	// First point of a line or rectangle.
	anchorX   int
	anchorY   int
	anchorSet bool

	fg           Color
	bg           Color
	bgEnabled    bool
	blockIndex   int
	rectFill     bool
	recentColors []Color

	// HSL slider state. sliderIndex selects hue/sat/light,
	// sliderTarget picks fg or bg.
	sliderH      float64
	sliderS      float64
	sliderL      float64
	sliderIndex  int
	sliderTarget int

	symmetry SymmetryMode

	input             textinput.Model
	fileList          []string
	selectedFileIndex int

	exportFormat ExportFormat
	exportDest   ExportDest
	exportField  int

	statusMessage string
	statusIsError bool
	statusTTL     int

	dirty            bool
	secondsSinceSave int

	recoveryPath string

	helpScroll int
}

func initialModel(file string) model {
	config := loadConfig()

	m := model{
		config:   config,
		theme:    themeByName(config.Theme),
		history:  NewHistory(),
		tool:     ToolPencil,
		fg:       colorWhite,
		symmetry: SymmetryOff,
	}

	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40
	m.input = ti

	if file != "" {
		project, err := loadProjectFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitInternalError)
		}
		m.project = project
		m.filename = file
		m.fg = project.Color
		m.symmetry = project.Symmetry

		if auto := autosavePath(file); fileExists(auto) {
			m.recoveryPath = auto
			m.mode = ModeRecovery
		}
		return m
	}

	m.project = NewProject("untitled", NewCanvas(defaultCanvasWidth, defaultCanvasHeight), colorWhite, SymmetryOff)

	dir := config.GetSavePath("")
	if dir == "" {
		dir = "."
	}
	if auto := findAutosave(dir); auto != "" {
		m.recoveryPath = auto
		m.mode = ModeRecovery
	}
	return m
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.statusTTL > 0 {
			m.statusTTL--
			if m.statusTTL == 0 {
				m.statusMessage = ""
			}
		}
		m.secondsSinceSave++
		if m.dirty && m.secondsSinceSave >= m.config.AutosaveSeconds {
			m.autosave()
			m.secondsSinceSave = 0
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.mode == ModeNormal {
			return m.handleMouse(msg)
		}
		return m, nil
	}
	return m, nil
}

func (m *model) setStatus(msg string, isError bool) {
	m.statusMessage = msg
	m.statusIsError = isError
	m.statusTTL = statusTicks
}

func (m *model) autosave() {
	path := autosavePath(m.filename)
	if m.filename == "" {
		dir := m.config.GetSavePath("")
		if dir != "" {
			path = filepath.Join(dir, filepath.Base(path))
		}
	}
	if err := m.project.SaveTo(path); err != nil {
		m.setStatus(fmt.Sprintf("Autosave failed: %v", err), true)
		return
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeNormal:
		return m.handleNormalKey(msg)
	case ModeHelp:
		return m.handleHelpKey(msg)
	case ModeRecovery:
		return m.handleRecoveryKey(msg)
	case ModeConfirmQuit:
		return m.handleConfirmQuitKey(msg)
	case ModeSaveAs, ModeExportFile, ModeResizeInput, ModeImportInput:
		return m.handleTextInputKey(msg)
	case ModeOpen:
		return m.handleOpenKey(msg)
	case ModeExportDialog:
		return m.handleExportDialogKey(msg)
	case ModeColorSliders:
		return m.handleSliderKey(msg)
	}
	return m, nil
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.dirty {
			m.mode = ModeConfirmQuit
			return m, nil
		}
		m.removeAutosave()
		return m, tea.Quit

	case "?":
		m.mode = ModeHelp
		m.helpScroll = 0
		return m, nil

	case "p":
		m.tool = ToolPencil
		m.anchorSet = false
	case "e":
		m.tool = ToolEraser
		m.anchorSet = false
	case "l":
		m.tool = ToolLine
		m.anchorSet = false
	case "r":
		m.tool = ToolRect
		m.anchorSet = false
	case "F":
		m.rectFill = !m.rectFill
		if m.rectFill {
			m.setStatus("Rectangles: filled", false)
		} else {
			m.setStatus("Rectangles: outline", false)
		}
	case "f":
		m.tool = ToolFill
		m.anchorSet = false
	case "i":
		m.tool = ToolEyedropper
		m.anchorSet = false

	case "s":
		m.symmetry = m.symmetry.next()
		m.project.Symmetry = m.symmetry
		m.setStatus(fmt.Sprintf("Symmetry: %s", m.symmetry), false)

	case "t":
		m.theme = nextTheme(m.theme)
		m.setStatus(fmt.Sprintf("Theme: %s", m.theme.Name), false)

	case "u", "ctrl+z":
		if m.history.Undo(m.project.Canvas) {
			m.dirty = true
			m.setStatus("Undone", false)
		} else {
			m.setStatus("Nothing to undo", true)
		}
	case "U", "ctrl+y", "ctrl+r":
		if m.history.Redo(m.project.Canvas) {
			m.dirty = true
			m.setStatus("Redone", false)
		} else {
			m.setStatus("Nothing to redo", true)
		}

	case "ctrl+s":
		if m.filename == "" {
			m.openSaveAs()
			return m, nil
		}
		m.saveCurrent()
	case "S":
		m.openSaveAs()
	case "o":
		m.openFileList()
	case "x":
		m.mode = ModeExportDialog
		m.exportFormat = ExportANSI
		m.exportDest = ExportToClipboard
		m.exportField = 0
	case "I":
		m.openInput(ModeImportInput, "Image path")
	case "R":
		m.openInput(ModeResizeInput, fmt.Sprintf("%dx%d", m.project.Canvas.Width, m.project.Canvas.Height))

	case "c":
		m.openSliders(0)
	case "C":
		m.openSliders(1)
	case "b":
		m.bgEnabled = !m.bgEnabled
		if m.bgEnabled && !m.bg.Valid {
			m.bg = colorBlack
		}
		if m.bgEnabled {
			m.setStatus("Background paint on", false)
		} else {
			m.setStatus("Background paint off", false)
		}
	case "[":
		m.blockIndex = (m.blockIndex - 1 + len(blockChars)) % len(blockChars)
	case "]":
		m.blockIndex = (m.blockIndex + 1) % len(blockChars)

	case "1", "2", "3", "4", "5", "6", "7", "8":
		idx := int(msg.String()[0] - '1')
		if idx < len(m.recentColors) {
			m.fg = m.recentColors[idx]
			m.setStatus(fmt.Sprintf("Color: %s", m.fg.Hex()), false)
		}

	case "up", "k":
		if m.cursorY > 0 {
			m.cursorY--
		}
	case "down", "j":
		if m.cursorY < m.project.Canvas.Height-1 {
			m.cursorY++
		}
	case "left", "h":
		if m.cursorX > 0 {
			m.cursorX--
		}
	case "right":
		if m.cursorX < m.project.Canvas.Width-1 {
			m.cursorX++
		}

	case "enter", " ":
		m.applyToolAt(m.cursorX, m.cursorY)

	case "esc":
		m.anchorSet = false
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y, ok := m.canvasCoord(msg.X, msg.Y)

	switch msg.Type {
	case tea.MouseLeft:
		if !ok {
			return m, nil
		}
		m.cursorX, m.cursorY = x, y
		switch m.tool {
		case ToolPencil, ToolEraser:
			if !m.drawing {
				m.drawing = true
				m.history.BeginStroke()
			}
			m.paintAt(x, y)
		default:
			m.applyToolAt(x, y)
		}

	case tea.MouseMotion:
		if !m.drawing || !ok {
			return m, nil
		}
		m.cursorX, m.cursorY = x, y
		m.paintAt(x, y)

	case tea.MouseRelease:
		if m.drawing {
			m.drawing = false
			m.history.EndStroke()
		}
	}
	return m, nil
}

// applyToolAt runs the active tool at a canvas coordinate. Line and
// rectangle are two-step: the first application sets the anchor, the
// second completes the shape.
func (m *model) applyToolAt(x, y int) {
	c := m.project.Canvas

	switch m.tool {
	case ToolPencil:
		m.commitMutations(pencil(c, x, y, m.brushCell()))
	case ToolEraser:
		m.commitMutations(eraser(c, x, y))
	case ToolFill:
		m.commitMutations(floodFill(c, x, y, m.brushCell()))
	case ToolEyedropper:
		cell, ok := eyedropper(c, x, y)
		if !ok {
			return
		}
		if cell.Fg.Valid {
			m.fg = cell.Fg
			m.rememberColor(cell.Fg)
		}
		m.bg = cell.Bg
		m.bgEnabled = cell.Bg.Valid
		for i, ch := range blockChars {
			if ch == cell.Ch {
				m.blockIndex = i
				break
			}
		}
		m.setStatus(fmt.Sprintf("Picked %q fg=%s", cell.Ch, nullableHexString(cell.Fg)), false)
	case ToolLine, ToolRect:
		if !m.anchorSet {
			m.anchorX, m.anchorY = x, y
			m.anchorSet = true
			return
		}
		m.anchorSet = false
		if m.tool == ToolLine {
			m.commitMutations(line(c, m.anchorX, m.anchorY, x, y, m.brushCell()))
		} else {
			m.commitMutations(rectangle(c, m.anchorX, m.anchorY, x, y, m.brushCell(), m.rectFill))
		}
	}
}

// paintAt is the per-cell step of a mouse stroke: mutations go through
// PushMutation so the whole drag collapses into one undo entry.
func (m *model) paintAt(x, y int) {
	c := m.project.Canvas
	var base []Mutation
	if m.tool == ToolEraser {
		base = eraser(c, x, y)
	} else {
		base = pencil(c, x, y, m.brushCell())
	}
	expanded := expandSymmetry(c, base, m.symmetry)
	for _, mut := range expanded {
		c.Set(mut.X, mut.Y, mut.New)
		m.history.PushMutation(mut)
	}
	if len(expanded) > 0 {
		m.dirty = true
		if m.tool != ToolEraser {
			m.rememberColor(m.fg)
		}
	}
}

func (m *model) commitMutations(base []Mutation) {
	c := m.project.Canvas
	expanded := expandSymmetry(c, base, m.symmetry)
	if len(expanded) == 0 {
		return
	}
	for _, mut := range expanded {
		c.Set(mut.X, mut.Y, mut.New)
	}
	m.history.Commit(cellChange(expanded))
	m.dirty = true
	if m.tool != ToolEraser {
		m.rememberColor(m.fg)
	}
}

func (m *model) brushCell() Cell {
	cell := Cell{Ch: blockChars[m.blockIndex], Fg: m.fg}
	if m.bgEnabled {
		cell.Bg = m.bg
	}
	if cell.Ch == BlockEmpty {
		cell.Ch = BlockFull
	}
	return cell
}

func (m *model) rememberColor(c Color) {
	if !c.Valid {
		return
	}
	for i, rc := range m.recentColors {
		if rc == c {
			if i == 0 {
				return
			}
			m.recentColors = append(m.recentColors[:i], m.recentColors[i+1:]...)
			break
		}
	}
	m.recentColors = append([]Color{c}, m.recentColors...)
	if len(m.recentColors) > maxRecentColors {
		m.recentColors = m.recentColors[:maxRecentColors]
	}
}

func (m *model) saveCurrent() {
	if err := m.project.SaveAtomic(m.filename); err != nil {
		m.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		return
	}
	m.dirty = false
	m.secondsSinceSave = 0
	m.removeAutosave()
	m.setStatus(fmt.Sprintf("Saved %s", m.filename), false)
}

func (m *model) removeAutosave() {
	path := autosavePath(m.filename)
	if m.filename == "" {
		dir := m.config.GetSavePath("")
		if dir != "" {
			path = filepath.Join(dir, filepath.Base(path))
		}
	}
	os.Remove(path)
}

func (m *model) openSaveAs() {
	m.mode = ModeSaveAs
	m.input.Placeholder = "filename"
	m.input.SetValue(strings.TrimSuffix(filepath.Base(m.filename), projectExt))
	m.input.Focus()
}

func (m *model) openInput(mode Mode, placeholder string) {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
}

func (m *model) openFileList() {
	dir := m.config.GetSavePath("")
	if dir == "" {
		dir = "."
	}
	m.fileList = listKakuFiles(dir)
	if len(m.fileList) == 0 {
		m.setStatus("No .kaku files found", true)
		return
	}
	m.selectedFileIndex = 0
	m.mode = ModeOpen
}

func (m *model) openSliders(target int) {
	m.sliderTarget = target
	m.sliderIndex = 0
	base := m.fg
	if target == 1 {
		base = m.bg
		if !base.Valid {
			base = colorBlack
		}
	}
	h, s, l := colorful.Color{
		R: float64(base.R) / 255,
		G: float64(base.G) / 255,
		B: float64(base.B) / 255,
	}.Hsl()
	m.sliderH, m.sliderS, m.sliderL = h, s, l
	m.mode = ModeColorSliders
}

func (m *model) sliderColor() Color {
	c := colorful.Hsl(m.sliderH, m.sliderS, m.sliderL).Clamped()
	return rgb(uint8(c.R*255+0.5), uint8(c.G*255+0.5), uint8(c.B*255+0.5))
}

func (m model) handleSliderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
	case "up", "k":
		m.sliderIndex = (m.sliderIndex + 2) % 3
	case "down", "j", "tab":
		m.sliderIndex = (m.sliderIndex + 1) % 3
	case "left", "h":
		m.adjustSlider(-1)
	case "right":
		m.adjustSlider(1)
	case "shift+left":
		m.adjustSlider(-10)
	case "shift+right":
		m.adjustSlider(10)
	case "enter":
		picked := m.sliderColor()
		if m.sliderTarget == 1 {
			m.bg = picked
			m.bgEnabled = true
		} else {
			m.fg = picked
			m.rememberColor(picked)
		}
		m.mode = ModeNormal
		m.setStatus(fmt.Sprintf("Color: %s", picked.Hex()), false)
	}
	return m, nil
}

func (m *model) adjustSlider(step int) {
	switch m.sliderIndex {
	case 0:
		m.sliderH += float64(step) * 2
		for m.sliderH < 0 {
			m.sliderH += 360
		}
		for m.sliderH >= 360 {
			m.sliderH -= 360
		}
	case 1:
		m.sliderS = clamp01(m.sliderS + float64(step)/100)
	case 2:
		m.sliderL = clamp01(m.sliderL + float64(step)/100)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (m model) handleTextInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		mode := m.mode
		m.mode = ModeNormal
		if value == "" {
			return m, nil
		}
		switch mode {
		case ModeSaveAs:
			m.finishSaveAs(value)
		case ModeExportFile:
			m.finishExportFile(value)
		case ModeResizeInput:
			m.finishResize(value)
		case ModeImportInput:
			m.finishImport(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) finishSaveAs(name string) {
	if !strings.HasSuffix(name, projectExt) {
		name += projectExt
	}
	path := m.config.GetSavePath(name)
	if err := m.project.SaveAtomic(path); err != nil {
		m.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		return
	}
	if err := initLog(logPath(path)); err != nil {
		m.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		return
	}
	m.removeAutosave()
	m.filename = path
	m.project.Name = strings.TrimSuffix(filepath.Base(name), projectExt)
	m.dirty = false
	m.secondsSinceSave = 0
	m.setStatus(fmt.Sprintf("Saved %s", path), false)
}

func (m *model) finishExportFile(name string) {
	var err error
	switch m.exportFormat {
	case ExportPlain:
		err = os.WriteFile(name, []byte(toPlainText(m.project.Canvas)), 0644)
	case ExportANSI:
		err = os.WriteFile(name, []byte(toANSI(m.project.Canvas, ColorTrueColor)), 0644)
	case ExportPNG:
		if !strings.HasSuffix(strings.ToLower(name), ".png") {
			name += ".png"
		}
		err = exportPNG(m.project.Canvas, name)
	}
	if err != nil {
		m.setStatus(fmt.Sprintf("Export failed: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Exported %s", name), false)
}

func (m *model) finishResize(value string) {
	parts := strings.SplitN(strings.ToLower(value), "x", 2)
	if len(parts) != 2 {
		m.setStatus("Size must be WIDTHxHEIGHT", true)
		return
	}
	w, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		m.setStatus("Size must be WIDTHxHEIGHT", true)
		return
	}
	w, h = clampDim(w), clampDim(h)

	c := m.project.Canvas
	oldCells, oldW, oldH := c.Cells(), c.Width, c.Height
	c.Resize(w, h)
	m.history.Commit(canvasSnapshot(oldCells, oldW, oldH, c.Cells(), w, h))
	m.cursorX = min(m.cursorX, w-1)
	m.cursorY = min(m.cursorY, h-1)
	m.dirty = true
	m.setStatus(fmt.Sprintf("Resized to %dx%d", w, h), false)
}

func (m *model) finishImport(path string) {
	c := m.project.Canvas
	cells, err := importImage(path, c.Width, c.Height, defaultImportOptions())
	if err != nil {
		m.setStatus(fmt.Sprintf("Import failed: %v", err), true)
		return
	}
	oldCells, oldW, oldH := c.Cells(), c.Width, c.Height
	c.Replace(cells, c.Width, c.Height)
	m.history.Commit(canvasSnapshot(oldCells, oldW, oldH, c.Cells(), c.Width, c.Height))
	m.dirty = true
	m.setStatus(fmt.Sprintf("Imported %s", filepath.Base(path)), false)
}

func (m model) handleOpenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
	case "up", "k":
		if m.selectedFileIndex > 0 {
			m.selectedFileIndex--
		}
	case "down", "j":
		if m.selectedFileIndex < len(m.fileList)-1 {
			m.selectedFileIndex++
		}
	case "enter":
		dir := m.config.GetSavePath("")
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, m.fileList[m.selectedFileIndex])
		project, err := loadProjectFile(path)
		if err != nil {
			m.setStatus(fmt.Sprintf("Open failed: %v", err), true)
			m.mode = ModeNormal
			return m, nil
		}
		m.project = project
		m.filename = path
		m.fg = project.Color
		m.symmetry = project.Symmetry
		m.history = NewHistory()
		m.cursorX, m.cursorY = 0, 0
		m.dirty = false
		m.secondsSinceSave = 0
		m.mode = ModeNormal
		m.setStatus(fmt.Sprintf("Opened %s", path), false)
	}
	return m, nil
}

func (m model) handleExportDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
	case "tab", "down", "j":
		m.exportField = (m.exportField + 1) % 2
	case "up", "k":
		m.exportField = (m.exportField + 1) % 2
	case "left", "h":
		if m.exportField == 0 {
			m.exportFormat = (m.exportFormat + 2) % 3
		} else {
			m.exportDest = (m.exportDest + 1) % 2
		}
	case "right":
		if m.exportField == 0 {
			m.exportFormat = (m.exportFormat + 1) % 3
		} else {
			m.exportDest = (m.exportDest + 1) % 2
		}
	case "enter":
		// PNG cannot go to the clipboard.
		if m.exportFormat == ExportPNG || m.exportDest == ExportToFile {
			m.mode = ModeExportFile
			m.input.Placeholder = "output file"
			m.input.SetValue("")
			m.input.Focus()
			return m, nil
		}
		var content string
		if m.exportFormat == ExportPlain {
			content = toPlainText(m.project.Canvas)
		} else {
			content = toANSI(m.project.Canvas, ColorTrueColor)
		}
		m.mode = ModeNormal
		if err := copyToClipboard(content); err != nil {
			m.setStatus(fmt.Sprintf("Clipboard failed: %v", err), true)
			return m, nil
		}
		m.setStatus("Copied to clipboard", false)
	}
	return m, nil
}

func (m model) handleRecoveryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		project, err := loadProjectFile(m.recoveryPath)
		if err != nil {
			m.setStatus(fmt.Sprintf("Recovery failed: %v", err), true)
		} else {
			m.project = project
			m.fg = project.Color
			m.symmetry = project.Symmetry
			m.dirty = true
			m.setStatus("Recovered unsaved work", false)
		}
		m.mode = ModeNormal
	case "n", "N", "esc", "q":
		os.Remove(m.recoveryPath)
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return m, tea.Quit
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = ModeNormal
		m.helpScroll = 0
	case "up", "k":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "down", "j":
		m.helpScroll++
	}
	return m, nil
}

func nullableHexString(c Color) string {
	if !c.Valid {
		return "none"
	}
	return c.Hex()
}
