package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so colors are adaptive and "faint" styling is only applied on dark
// backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("27", "62") // blue
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorDone       lipgloss.TerminalColor = ac("28", "35") // green
	colorMarker     lipgloss.TerminalColor = ac("166", "214")
	colorPanelTitle lipgloss.TerminalColor = ac("235", "252")
	colorGhostFg    lipgloss.TerminalColor = ac("248", "240")
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleTitle  = lipgloss.NewStyle().Foreground(colorPanelTitle).Bold(true)
	styleFocusT = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true)
	styleRowSel = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)
	styleCursor = lipgloss.NewStyle().Bold(true)
	styleDone   = lipgloss.NewStyle().Foreground(colorDone)
	styleGhost  = lipgloss.NewStyle().Foreground(colorGhostFg).Strikethrough(false)
	styleMarker = lipgloss.NewStyle().Foreground(colorMarker).Bold(true)
)

// hasDarkBackground is split out so tests can pin the answer.
func hasDarkBackground() bool {
	return termenv.HasDarkBackground()
}
