// Package tui provides the terminal history browser for keyframe.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for the history browser.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#10B981") // Green
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorActive    = lipgloss.Color("#3B82F6") // Blue
	ColorBorder    = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleSubtitle is used for secondary information.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleExecuted is used for entries on the undo stack.
	StyleExecuted = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	// StylePending is used for entries waiting on redo.
	StylePending = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleCheckpoint is used for checkpoint markers.
	StyleCheckpoint = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	// StyleCursor highlights the selected row.
	StyleCursor = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorActive)

	// StyleWarning is used for transient messages.
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleError is used for error messages.
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleHelp is used for the help bar.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// StyleBox frames each browser panel.
var StyleBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// ProgressBar renders how full the undo stack is.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	filledStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	emptyStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", empty))
}

// helpItem is one key binding shown in the help bar.
type helpItem struct {
	key  string
	desc string
}

var helpItems = []helpItem{
	{"↑/↓", "select"},
	{"u", "undo"},
	{"r", "redo"},
	{"c", "to checkpoint"},
	{"x", "undo selected"},
	{"q", "quit"},
}

// HelpBar renders the key bindings.
func HelpBar() string {
	parts := make([]string, len(helpItems))
	for i, h := range helpItems {
		parts[i] = StyleHelpKey.Render(h.key) + " " + StyleHelpDesc.Render(h.desc)
	}
	return StyleHelp.Render(strings.Join(parts, "  "))
}
