// Package ui is the interactive terminal directory for browsing advocates.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	primary     = lipgloss.Color("#1d4339")
	accent      = lipgloss.Color("#d7a13b")
	muted       = lipgloss.Color("#8a8f98")
	destructive = lipgloss.Color("#e53935")
	border      = lipgloss.Color("#3b4a5a")
)

// Styles groups the lipgloss styles used by the directory view.
type Styles struct {
	Header    lipgloss.Style
	Label     lipgloss.Style
	Term      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Empty     lipgloss.Style
	SearchBox lipgloss.Style
	Content   lipgloss.Style
}

// DefaultStyles returns the directory palette.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(primary).
			Padding(0, 1),
		Label: lipgloss.NewStyle().Bold(true),
		Term:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		Muted: lipgloss.NewStyle().Foreground(muted),
		Error: lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Empty: lipgloss.NewStyle().Foreground(muted).Padding(1, 2),
		SearchBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Content: lipgloss.NewStyle(),
	}
}
