// Package styles centralizes the lipgloss styles used for terminal output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Message prefixes
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // bright blue
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // bright green
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // bright yellow
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // bright red
	Command = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // bright cyan
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray

	// Emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// Boxes
	TitleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Bold(true)
)
