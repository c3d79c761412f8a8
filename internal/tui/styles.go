package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/titansave/internal/index"
)

// ANSI 256 palette; the report text itself carries its own escape codes.
var (
	accentFg = lipgloss.Color("12")
	bossFg   = lipgloss.Color("10")
	keyFg    = lipgloss.Color("11")
	badFg    = lipgloss.Color("9")
	mutedFg  = lipgloss.Color("240")
	edgeFg   = lipgloss.Color("238")
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(keyFg).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedFg)
	bossStyle    = lipgloss.NewStyle().Foreground(bossFg)
	keyStyle     = lipgloss.NewStyle().Foreground(keyFg)
	invalidStyle = lipgloss.NewStyle().Foreground(badFg)
	statusStyle  = lipgloss.NewStyle().Foreground(mutedFg).Padding(0, 1)
	badgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(accentFg).Padding(0, 1)
)

// panel is the rounded frame around the list and the report. The panel that
// last took input is drawn in the accent color.
func panel(focused bool) lipgloss.Style {
	edge := edgeFg
	if focused {
		edge = accentFg
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(edge)
}

// progressStyle colors a list summary by what matched.
func progressStyle(kind string, valid bool) lipgloss.Style {
	switch {
	case !valid:
		return invalidStyle
	case kind == index.KindBoss:
		return bossStyle
	case kind == index.KindKey:
		return keyStyle
	}
	return mutedStyle
}
