package main

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	allocColor   = lipgloss.Color("#04B575")
	freeColor    = lipgloss.Color("#00D7FF")
	errorColor   = lipgloss.Color("#FF4B4B")
	mutedColor   = lipgloss.Color("#666666")

	// Header styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	opStyle = lipgloss.NewStyle().
		Foreground(freeColor).
		Italic(true)

	// Block map styles
	allocStyle = lipgloss.NewStyle().
			Foreground(allocColor)

	freeStyle = lipgloss.NewStyle().
			Foreground(freeColor)

	sepStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Status bar styles
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	messageStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)
