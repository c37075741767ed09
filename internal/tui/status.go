package tui

import (
	"fmt"
	"strings"

	"github.com/keyframe-studio/keyframe/internal/history"
	"github.com/keyframe-studio/keyframe/internal/output"
	"github.com/keyframe-studio/keyframe/internal/validate"
)

// StackComponent summarizes both stacks.
type StackComponent struct {
	Stats history.Stats
	Width int
}

// View renders the stack summary.
func (sc *StackComponent) View() string {
	var b strings.Builder

	capacity := 0.0
	if sc.Stats.MaxHistory > 0 {
		capacity = float64(sc.Stats.UndoCount) / float64(sc.Stats.MaxHistory) * 100
	}
	b.WriteString(fmt.Sprintf("Undo %d/%d  ", sc.Stats.UndoCount, sc.Stats.MaxHistory))
	b.WriteString(ProgressBar(capacity, 20))
	b.WriteString(fmt.Sprintf("  Redo %d", sc.Stats.RedoCount))

	merge := "off"
	if sc.Stats.AutoMerge {
		merge = output.FormatDuration(sc.Stats.MergeTimeout)
	}
	b.WriteString(StyleSubtitle.Render("  merge: " + merge))

	return StyleBox.Width(boxWidth(sc.Width)).Render(b.String())
}

// TimelineComponent lists history entries with a cursor. Only the rows that
// fit Height are shown, keeping the cursor visible.
type TimelineComponent struct {
	Entries []history.Entry
	Cursor  int
	Width   int
	Height  int
}

// View renders the timeline.
func (tc *TimelineComponent) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("History"))
	b.WriteString("\n")

	if len(tc.Entries) == 0 {
		b.WriteString(StylePending.Render("No history yet"))
		return StyleBox.Width(boxWidth(tc.Width)).Render(b.String())
	}

	start, end := tc.window()
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, tc.renderEntry(i))
	}
	b.WriteString(strings.Join(lines, "\n"))

	return StyleBox.Width(boxWidth(tc.Width)).Render(b.String())
}

func (tc *TimelineComponent) window() (int, int) {
	n := len(tc.Entries)
	rows := tc.Height
	if rows <= 0 || rows >= n {
		return 0, n
	}
	start := tc.Cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

func (tc *TimelineComponent) renderEntry(i int) string {
	e := tc.Entries[i]

	desc := validate.TruncateString(e.Description, max(boxWidth(tc.Width)-16, 10))
	switch {
	case e.CheckpointID != "":
		desc = StyleCheckpoint.Render(desc)
	case !e.Executed:
		desc = StylePending.Render(desc)
	}

	marker := StylePending.Render(e.Marker())
	if e.Executed {
		marker = StyleExecuted.Render(e.Marker())
	}

	prefix := "  "
	if i == tc.Cursor {
		prefix = StyleCursor.Render("> ")
	}

	line := fmt.Sprintf("%s%s %s  %s", prefix, marker, StyleSubtitle.Render(output.FormatTimeOnly(e.Timestamp)), desc)
	if e.Current {
		line += StyleCursor.Render("  ←")
	}
	return line
}

// DetailComponent describes the selected entry and what it depends on.
type DetailComponent struct {
	Entry   *history.Entry
	Related []history.Entry
	Width   int
}

// View renders the detail panel.
func (dc *DetailComponent) View() string {
	if dc.Entry == nil {
		return ""
	}
	e := dc.Entry

	var b strings.Builder
	b.WriteString(StyleTitle.Render(e.Description))
	b.WriteString("\n")
	b.WriteString(StyleSubtitle.Render(fmt.Sprintf("%s  %s", e.Kind, e.ID)))
	if e.ElementID != "" {
		b.WriteString("\n")
		b.WriteString("Element: " + e.ElementID)
	}
	if e.CheckpointName != "" {
		b.WriteString("\n")
		b.WriteString("Checkpoint: " + StyleCheckpoint.Render(e.CheckpointName))
	}
	if len(dc.Related) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("Shares elements with %d other command(s)", len(dc.Related))))
	}

	return StyleBox.Width(boxWidth(dc.Width)).Render(b.String())
}

func boxWidth(width int) int {
	if width <= 4 {
		return output.DefaultWidth - 4
	}
	return width - 4
}
