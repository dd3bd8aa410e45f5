package cli

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for CLI output.
type Theme struct {
	Assistant lipgloss.Color
	Title     lipgloss.Color
	Hint      lipgloss.Color
	Error     lipgloss.Color
}

// DefaultTheme matches the server's web palette.
var DefaultTheme = Theme{
	Assistant: lipgloss.Color("#AF87FF"), // soft purple
	Title:     lipgloss.Color("#5FAFD7"), // light blue
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
	Error:     lipgloss.Color("#FF005F"), // red
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant)
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}
