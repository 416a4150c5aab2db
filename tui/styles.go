package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#E2B714")
	colorBorder = lipgloss.Color("#3A3F4B")
	colorMuted  = lipgloss.Color("#6B7280")
)

// Styles bundles the lipgloss styles used by the window.
type Styles struct {
	Title     lipgloss.Style
	Log       lipgloss.Style
	Side      lipgloss.Style
	PaneTitle lipgloss.Style
	Selected  lipgloss.Style
	Muted     lipgloss.Style
	Input     lipgloss.Style
	Footer    lipgloss.Style
}

// DefaultStyles builds the single theme the window ships with.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent),

		Log: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),

		Side: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(sideWidth),

		PaneTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent),

		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1),
	}
}
