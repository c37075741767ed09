package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/keyframe-studio/keyframe/internal/history"
	"github.com/keyframe-studio/keyframe/internal/model"
	"github.com/keyframe-studio/keyframe/internal/validate"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleElement = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleCheckpoint = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWarning)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// ElementID formats an element ID.
func (c *CLIFormatter) ElementID(id string) string {
	return c.render(styleElement, id)
}

// Marker formats an entry's history marker.
func (c *CLIFormatter) Marker(e history.Entry) string {
	if e.Executed {
		return c.render(styleSuccess, e.Marker())
	}
	return c.render(styleMuted, e.Marker())
}

// =============================================================================
// Elements
// =============================================================================

// PrintElement prints every field of an element.
func (c *CLIFormatter) PrintElement(el *model.Element) {
	c.Printf("Element %s\n", c.ElementID(el.ID))
	if el.Name != "" {
		c.Printf("  Name:     %s\n", el.Name)
	}
	if el.Kind != "" {
		c.Printf("  Kind:     %s\n", el.Kind)
	}
	c.Printf("  Position: %s\n", el.Position)
	c.Printf("  Layer:    %d\n", el.Layer)
	if el.Solution != "" {
		c.Printf("  Solution: %s\n", el.Solution)
	}
	if names := el.PropertyNames(); len(names) > 0 {
		c.Println("  Properties:")
		for _, name := range names {
			c.Printf("    %s = %v\n", name, el.Properties[name])
		}
	}
	c.Printf("  Created:  %s\n", FormatTime(el.CreatedAt))
}

// PrintElements prints elements as a table.
func (c *CLIFormatter) PrintElements(els []*model.Element) {
	if len(els) == 0 {
		c.Muted("No elements on stage.")
		c.Muted("Use 'keyframe add <id>' to add one.")
		return
	}

	rows := make([]TableRow, len(els))
	for i, el := range els {
		rows[i] = TableRow{Columns: []string{
			el.ID, el.Name, el.Kind, el.Position.String(), fmt.Sprint(el.Layer), el.Solution,
		}}
	}
	c.PrintTable([]string{"ID", "NAME", "KIND", "POSITION", "LAYER", "SOLUTION"}, rows)
}

// =============================================================================
// History
// =============================================================================

// PrintHistory prints the timeline oldest first.
func (c *CLIFormatter) PrintHistory(entries []history.Entry) {
	if len(entries) == 0 {
		c.Muted("No history.")
		return
	}
	for _, e := range entries {
		c.PrintEntry(e)
	}
}

// PrintEntry prints one history line: marker, time, description and ID.
func (c *CLIFormatter) PrintEntry(e history.Entry) {
	desc := e.Description
	if e.CheckpointID != "" {
		desc = c.render(styleCheckpoint, desc)
	}
	line := fmt.Sprintf("%s %s  %s  %s", c.Marker(e), FormatTimeOnly(e.Timestamp), desc, c.render(styleMuted, e.ID))
	if e.Current {
		line += c.render(styleBold, "  ← current")
	}
	c.Println(line)
}

// PrintCheckpoints prints checkpoint markers with their IDs.
func (c *CLIFormatter) PrintCheckpoints(entries []history.Entry, now time.Time) {
	if len(entries) == 0 {
		c.Muted("No checkpoints.")
		c.Muted("Use 'keyframe checkpoint <name>' to create one.")
		return
	}

	rows := make([]TableRow, len(entries))
	for i, e := range entries {
		rows[i] = TableRow{Columns: []string{e.CheckpointName, FormatAge(e.Timestamp, now), e.CheckpointID}}
	}
	c.PrintTable([]string{"NAME", "CREATED", "CHECKPOINT ID"}, rows)
}

// PrintDependencies prints the commands related to target.
func (c *CLIFormatter) PrintDependencies(target history.Entry, deps []history.Entry) {
	c.Printf("%s %s\n", c.render(styleBold, "Command:"), target.Description)
	if len(deps) == 0 {
		c.Muted("  No other commands touch the same elements.")
		return
	}
	c.Printf("  %d related command(s):\n", len(deps))
	for _, d := range deps {
		c.Printf("  %s %s  %s\n", c.Marker(d), d.Description, c.render(styleMuted, d.ID))
	}
}

// PrintAction reports the commands an undo or redo touched and what comes
// next.
func (c *CLIFormatter) PrintAction(verb string, descriptions []string, stats history.Stats) {
	for _, d := range descriptions {
		c.Success(verb + ": " + d)
	}
	c.Muted(fmt.Sprintf("  %d to undo, %d to redo", stats.UndoCount, stats.RedoCount))
}

// PrintStats prints stack sizes and configuration.
func (c *CLIFormatter) PrintStats(s history.Stats) {
	c.Title("History")
	capacity := 0.0
	if s.MaxHistory > 0 {
		capacity = float64(s.UndoCount) / float64(s.MaxHistory) * 100
	}
	c.Printf("  Undo:          %d / %d  %s\n", s.UndoCount, s.MaxHistory, ProgressBar(capacity, 20))
	c.Printf("  Redo:          %d\n", s.RedoCount)
	c.Printf("  Total:         %d\n", s.TotalOperations)
	c.Printf("  Auto-merge:    %t\n", s.AutoMerge)
	c.Printf("  Merge window:  %s\n", FormatDuration(s.MergeTimeout))
}

// PrintSettings prints configuration keys in sorted order.
func (c *CLIFormatter) PrintSettings(settings map[string]string) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.Printf("%s = %s\n", k, settings[k])
	}
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// TableRow is one row of a CLI table.
type TableRow struct {
	Columns []string
}

// PrintTable prints a table. The last column is truncated to fit the
// terminal width.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && lipgloss.Width(col) > widths[i] {
				widths[i] = lipgloss.Width(col)
			}
		}
	}

	last := len(widths) - 1
	used := 0
	for _, w := range widths[:last] {
		used += w + 2
	}
	if room := c.Width() - used; room > 3 && widths[last] > room {
		widths[last] = room
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(pad(h, widths[i]))
	}
	c.Println(c.render(styleBold, strings.TrimRight(headerLine.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i >= len(widths) {
				break
			}
			if i == last {
				col = validate.TruncateString(col, widths[i])
			}
			rowLine.WriteString(pad(col, widths[i]))
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return s + "  "
}
