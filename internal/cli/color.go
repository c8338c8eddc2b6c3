package cli

import "github.com/charmbracelet/lipgloss"

var (
	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	silentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func Primary(text string) string { return primaryStyle.Render(text) }
func Success(text string) string { return successStyle.Render(text) }
func Silent(text string) string  { return silentStyle.Render(text) }
