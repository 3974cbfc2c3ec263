package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for terminal output.
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray

	// Diff styles.
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan

	// Spinner / animation styles.
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// Reply styles.
	answerPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
)
