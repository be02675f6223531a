package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors are ANSI-256 indices so the UI renders consistently
// on terminals without truecolor support.
type Theme struct {
	Name         string
	BorderAccent lipgloss.Color
	HeaderBg     lipgloss.Color
	Highlight    lipgloss.Color
	Accent       lipgloss.Color
	Dim          lipgloss.Color
	Separator    lipgloss.Color
	PanelBg      lipgloss.Color
	GridEven     lipgloss.Color
	GridOdd      lipgloss.Color
	MsgSuccess   lipgloss.Color
	MsgWarning   lipgloss.Color
	MsgError     lipgloss.Color
}

var themeWarm = Theme{
	Name:         "Warm",
	BorderAccent: lipgloss.Color("130"),
	HeaderBg:     lipgloss.Color("130"),
	Highlight:    lipgloss.Color("220"),
	Accent:       lipgloss.Color("214"),
	Dim:          lipgloss.Color("243"),
	Separator:    lipgloss.Color("239"),
	PanelBg:      lipgloss.Color("235"),
	GridEven:     lipgloss.Color("235"),
	GridOdd:      lipgloss.Color("234"),
	MsgSuccess:   lipgloss.Color("34"),
	MsgWarning:   lipgloss.Color("178"),
	MsgError:     lipgloss.Color("160"),
}

var themeNeon = Theme{
	Name:         "Neon",
	BorderAccent: lipgloss.Color("201"),
	HeaderBg:     lipgloss.Color("55"),
	Highlight:    lipgloss.Color("46"),
	Accent:       lipgloss.Color("51"),
	Dim:          lipgloss.Color("245"),
	Separator:    lipgloss.Color("240"),
	PanelBg:      lipgloss.Color("233"),
	GridEven:     lipgloss.Color("234"),
	GridOdd:      lipgloss.Color("233"),
	MsgSuccess:   lipgloss.Color("46"),
	MsgWarning:   lipgloss.Color("226"),
	MsgError:     lipgloss.Color("196"),
}

var themeDark = Theme{
	Name:         "Dark",
	BorderAccent: lipgloss.Color("245"),
	HeaderBg:     lipgloss.Color("236"),
	Highlight:    lipgloss.Color("255"),
	Accent:       lipgloss.Color("252"),
	Dim:          lipgloss.Color("241"),
	Separator:    lipgloss.Color("237"),
	PanelBg:      lipgloss.Color("234"),
	GridEven:     lipgloss.Color("236"),
	GridOdd:      lipgloss.Color("235"),
	MsgSuccess:   lipgloss.Color("35"),
	MsgWarning:   lipgloss.Color("172"),
	MsgError:     lipgloss.Color("124"),
}

var themes = []Theme{themeWarm, themeNeon, themeDark}

func themeByName(name string) Theme {
	for _, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return themeWarm
}

func nextTheme(current Theme) Theme {
	for i, t := range themes {
		if t.Name == current.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
