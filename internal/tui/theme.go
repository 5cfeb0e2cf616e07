package tui

import "github.com/charmbracelet/lipgloss"

// Two visual treatments: inverted rows for the selected/active thing
// and plain text everywhere else, plus a muted tone for chrome that
// stays readable on light and dark terminals.
var (
	styleSelected = lipgloss.NewStyle().Reverse(true)
	styleUnseen   = lipgloss.NewStyle().Bold(true)
	styleChrome   = lipgloss.NewStyle().Foreground(
		lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
)
