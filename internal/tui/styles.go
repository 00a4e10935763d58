package tui

import "github.com/charmbracelet/lipgloss"

const (
	mutedColor  = "#7a7a8c"
	accentColor = "#00ffff"
)

type styles struct {
	r *lipgloss.Renderer

	name      lipgloss.Style
	muted     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	box       lipgloss.Style
	selected  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		r:         r,
		name:      r.NewStyle().Bold(true),
		muted:     r.NewStyle().Foreground(lipgloss.Color(mutedColor)),
		tab:       r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(mutedColor)),
		activeTab: r.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color(accentColor)),
		box:       r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		selected:  r.NewStyle().Bold(true).Foreground(lipgloss.Color(accentColor)),
	}
}

// fg is a one-off foreground style for a hex colour.
func (s styles) fg(hex string) lipgloss.Style {
	return s.r.NewStyle().Foreground(lipgloss.Color(hex))
}
