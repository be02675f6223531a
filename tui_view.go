package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Canvas placement within the terminal. One terminal cell per canvas
// cell, below the header and tool bars.
const (
	canvasLeft = 1
	canvasTop  = 2
)

func (m model) canvasCoord(mx, my int) (int, int, bool) {
	x := mx - canvasLeft
	y := my - canvasTop
	if x < 0 || y < 0 || x >= m.project.Canvas.Width || y >= m.project.Canvas.Height {
		return 0, 0, false
	}
	return x, y, true
}

func (m model) View() string {
	switch m.mode {
	case ModeHelp:
		return m.helpView()
	case ModeOpen:
		return m.openView()
	case ModeRecovery:
		return m.promptView(fmt.Sprintf("Unsaved work found at %s. Recover it? (y/n)", m.recoveryPath))
	case ModeConfirmQuit:
		return m.promptView("Unsaved changes. Quit anyway? (y/n)")
	}

	var b strings.Builder
	b.WriteString(m.headerBar())
	b.WriteString("\n")
	b.WriteString(m.toolBar())
	b.WriteString("\n")
	b.WriteString(m.canvasView())
	b.WriteString("\n")

	switch m.mode {
	case ModeSaveAs:
		b.WriteString(m.inputLine("Save as"))
	case ModeExportFile:
		b.WriteString(m.inputLine("Export to"))
	case ModeResizeInput:
		b.WriteString(m.inputLine("New size (WxH)"))
	case ModeImportInput:
		b.WriteString(m.inputLine("Import image"))
	case ModeExportDialog:
		b.WriteString(m.exportDialog())
	case ModeColorSliders:
		b.WriteString(m.sliderView())
	default:
		b.WriteString(m.statusLine())
	}
	return b.String()
}

func (m model) headerBar() string {
	name := m.project.Name
	if name == "" {
		name = "untitled"
	}
	dirty := ""
	if m.dirty {
		dirty = " *"
	}
	text := fmt.Sprintf(" %s%s  %dx%d ", name, dirty, m.project.Canvas.Width, m.project.Canvas.Height)
	style := lipgloss.NewStyle().
		Background(m.theme.HeaderBg).
		Foreground(m.theme.Highlight).
		Bold(true)
	return style.Render(padTo(text, m.width))
}

func (m model) toolBar() string {
	var b strings.Builder

	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(m.theme.Dim)

	for _, t := range allTools {
		label := fmt.Sprintf("[%s]%s", t.Key(), t.Name())
		if t == m.tool {
			b.WriteString(accent.Render(label))
		} else {
			b.WriteString(dim.Render(label))
		}
		b.WriteString(" ")
	}

	b.WriteString(dim.Render("│ sym:"))
	b.WriteString(accent.Render(m.symmetry.String()))

	b.WriteString(dim.Render(" │ ch:"))
	b.WriteString(accent.Render(string(blockChars[m.blockIndex])))

	b.WriteString(dim.Render(" │ fg:"))
	b.WriteString(swatch(m.fg))
	if m.bgEnabled {
		b.WriteString(dim.Render(" bg:"))
		b.WriteString(swatch(m.bg))
	}

	if len(m.recentColors) > 0 {
		b.WriteString(dim.Render(" │ "))
		for _, c := range m.recentColors {
			b.WriteString(swatch(c))
		}
	}

	return b.String()
}

func swatch(c Color) string {
	if !c.Valid {
		return " "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ")
}

func (m model) canvasView() string {
	c := m.project.Canvas
	evenBg := lipgloss.NewStyle().Background(m.theme.GridEven)
	oddBg := lipgloss.NewStyle().Background(m.theme.GridOdd)
	cursorStyle := lipgloss.NewStyle().Background(m.theme.Highlight).Foreground(lipgloss.Color("0"))
	anchorStyle := lipgloss.NewStyle().Background(m.theme.Accent).Foreground(lipgloss.Color("0"))

	var b strings.Builder
	for y := 0; y < c.Height; y++ {
		b.WriteString(strings.Repeat(" ", canvasLeft))
		for x := 0; x < c.Width; x++ {
			cell, _ := c.Get(x, y)
			ch := string(cell.Ch)

			switch {
			case x == m.cursorX && y == m.cursorY:
				b.WriteString(cursorStyle.Render(ch))
			case m.anchorSet && x == m.anchorX && y == m.anchorY:
				b.WriteString(anchorStyle.Render(ch))
			case cell.IsEmpty():
				if (x+y)%2 == 0 {
					b.WriteString(evenBg.Render(" "))
				} else {
					b.WriteString(oddBg.Render(" "))
				}
			default:
				style := lipgloss.NewStyle()
				if cell.Fg.Valid {
					style = style.Foreground(lipgloss.Color(cell.Fg.Hex()))
				}
				if cell.Bg.Valid {
					style = style.Background(lipgloss.Color(cell.Bg.Hex()))
				} else if (x+y)%2 == 0 {
					style = style.Background(m.theme.GridEven)
				} else {
					style = style.Background(m.theme.GridOdd)
				}
				b.WriteString(style.Render(ch))
			}
		}
		if y < c.Height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m model) statusLine() string {
	if m.statusMessage != "" {
		color := m.theme.MsgSuccess
		if m.statusIsError {
			color = m.theme.MsgError
		}
		return lipgloss.NewStyle().Foreground(color).Render(" " + m.statusMessage)
	}
	hint := " ?:help  tools:p/e/l/r/f/i  s:symmetry  c:color  u:undo  ctrl+s:save  q:quit"
	return lipgloss.NewStyle().Foreground(m.theme.Dim).Render(hint)
}

func (m model) inputLine(label string) string {
	prompt := lipgloss.NewStyle().Foreground(m.theme.Accent).Render(" " + label + ": ")
	return prompt + m.input.View()
}

func (m model) exportDialog() string {
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(m.theme.Dim)

	formats := []string{"plain", "ansi", "png"}
	dests := []string{"clipboard", "file"}

	var b strings.Builder
	b.WriteString(" Export  ")
	for i, f := range formats {
		label := f
		if ExportFormat(i) == m.exportFormat {
			label = "[" + f + "]"
			if m.exportField == 0 {
				b.WriteString(accent.Render(label))
			} else {
				b.WriteString(dim.Render(label))
			}
		} else {
			b.WriteString(dim.Render(" " + f + " "))
		}
	}
	b.WriteString("  →  ")
	for i, d := range dests {
		label := d
		if ExportDest(i) == m.exportDest {
			label = "[" + d + "]"
			if m.exportField == 1 {
				b.WriteString(accent.Render(label))
			} else {
				b.WriteString(dim.Render(label))
			}
		} else {
			b.WriteString(dim.Render(" " + d + " "))
		}
	}
	b.WriteString(dim.Render("  (tab to switch, enter to export, esc to cancel)"))
	return b.String()
}

func (m model) sliderView() string {
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(m.theme.Dim)

	target := "fg"
	if m.sliderTarget == 1 {
		target = "bg"
	}

	renderSlider := func(idx int, name string, frac float64, display string) string {
		const width = 20
		filled := int(frac*width + 0.5)
		if filled > width {
			filled = width
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
		label := fmt.Sprintf("%s %s %s", name, bar, display)
		if idx == m.sliderIndex {
			return accent.Render("▸ " + label)
		}
		return dim.Render("  " + label)
	}

	h := renderSlider(0, "H", m.sliderH/360, fmt.Sprintf("%3.0f°", m.sliderH))
	s := renderSlider(1, "S", m.sliderS, fmt.Sprintf("%3.0f%%", m.sliderS*100))
	l := renderSlider(2, "L", m.sliderL, fmt.Sprintf("%3.0f%%", m.sliderL*100))

	preview := m.sliderColor()
	line := fmt.Sprintf(" %s  %s  %s  %s %s %s",
		h, s, l,
		dim.Render(target+":"), swatch(preview), dim.Render(preview.Hex()))
	return line
}

func (m model) openView() string {
	var b strings.Builder
	b.WriteString("Open a drawing:\n")
	b.WriteString(strings.Repeat("─", max(m.width, 20)))
	b.WriteString("\n")

	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	for i, file := range m.fileList {
		name := strings.TrimSuffix(file, projectExt)
		if i == m.selectedFileIndex {
			b.WriteString(accent.Render("> " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", max(m.width, 20)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Dim).Render("enter: open  esc: cancel"))
	return b.String()
}

func (m model) promptView(question string) string {
	style := lipgloss.NewStyle().
		Foreground(m.theme.Highlight).
		Background(m.theme.PanelBg).
		Padding(1, 2)
	return "\n\n" + style.Render(question)
}

var helpLines = []string{
	"kakukuma — cell grid drawing",
	"",
	"Tools",
	"  p  pencil          e  eraser",
	"  l  line            r  rectangle",
	"  f  fill            i  eyedropper",
	"  F  toggle filled rectangles",
	"",
	"Drawing",
	"  mouse drag         paint (pencil/eraser)",
	"  click, click       line/rect endpoints",
	"  space/enter        apply tool at cursor",
	"  arrows / hjkl      move cursor",
	"  esc                cancel line/rect anchor",
	"",
	"Color",
	"  c                  foreground color sliders",
	"  C                  background color sliders",
	"  b                  toggle background paint",
	"  [ ]                cycle block character",
	"  1-8                recent colors",
	"",
	"Canvas",
	"  s                  cycle symmetry (off/h/v/quad)",
	"  u / ctrl+z         undo",
	"  U / ctrl+y         redo",
	"  R                  resize canvas",
	"  I                  import image",
	"",
	"Files",
	"  ctrl+s             save",
	"  S                  save as",
	"  o                  open",
	"  x                  export (plain/ansi/png)",
	"",
	"  t                  cycle theme",
	"  q                  quit",
}

func (m model) helpView() string {
	visible := m.height - 2
	if visible < 1 {
		visible = len(helpLines)
	}
	start := m.helpScroll
	if start > len(helpLines)-1 {
		start = len(helpLines) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(helpLines) {
		end = len(helpLines)
	}

	var b strings.Builder
	for _, line := range helpLines[start:end] {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Dim).Render("  ↑/↓ scroll  esc close"))
	return b.String()
}

func padTo(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
