package ui

import "github.com/charmbracelet/lipgloss"

// Styles defines the lipgloss styles used in the CLI.
var Styles = struct {
	Bold      lipgloss.Style
	UserTag   lipgloss.Style
	BotTag    lipgloss.Style
	ChatTitle lipgloss.Style
	Dim       lipgloss.Style
}{
	Bold: lipgloss.NewStyle().Bold(true),

	UserTag: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),

	BotTag: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),

	ChatTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),

	Dim: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}
