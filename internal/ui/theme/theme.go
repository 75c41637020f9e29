package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, teal and orange on a dark background.
var (
	Primary   = lipgloss.Color("#129392") // Teal
	Secondary = lipgloss.Color("#01A6A3") // Light teal
	Accent    = lipgloss.Color("#F38C0B") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#01262A") // Deep teal
	BgCard    = lipgloss.Color("#01484C") // Dark teal
	Border    = lipgloss.Color("#2F5F62") // Muted teal

	Highlight = lipgloss.Color("#FACC15") // Yellow, selected buttons
	Info      = lipgloss.Color("#22D3EE") // Cyan, stat boxes
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
