package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	System lipgloss.Style
	Error  lipgloss.Style
	Author lipgloss.Style
	Input  lipgloss.Style
	Status lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		System: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Author: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
