package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Base styles for changuito TUI components
var (
	// Header style for titles and section headers
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// Tab styles for the screen switcher
	StyleTabActive = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Underline(true)

	StyleTabInactive = lipgloss.NewStyle().
				Foreground(ColorSubtle)

	// Success style for positive feedback
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// Error style for error messages
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Warning style for warnings and uncertain prices
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// Muted style for secondary text
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Subtle style for hints and descriptions
	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Italic(true)

	// Selected style for the cursor row
	StyleSelected = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	// Hidden style for crossed-off rows
	StyleHidden = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Strikethrough(true)

	// Total style for the running total footer
	StyleTotal = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	// Box style for bordered containers
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1)
)

const logoASCII = `
      _                            _ _
  ___| |__   __ _ _ __   __ _ _  _(_) |_ ___
 / __| '_ \ / _' | '_ \ / _' | | | | | __/ _ \
| (__| | | | (_| | | | | (_| | |_| | | || (_) |
 \___|_| |_|\__,_|_| |_|\__, |\__,_|_|\__\___/
                        |___/                  `

// Logo returns the changuito ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
