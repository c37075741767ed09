package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	// History
	ErrNothingToUndo:      "Nothing has been recorded yet. Run 'keyframe history' to inspect the timeline.",
	ErrNothingToRedo:      "Redo history is cleared whenever a new edit is recorded.",
	ErrCheckpointNotFound: "Use 'keyframe checkpoint list' to see checkpoints still in history.",
	ErrCommandNotFound:    "Use 'keyframe history' to see command IDs still in the undo history.",
	ErrDependencyConflict: "Use 'keyframe deps <command>' to see dependents, or undo them first with 'keyframe undo'.",
	ErrPartialUndo:        "Use 'keyframe history' to see which edits were undone; run with --debug for the failing step.",

	// Input
	ErrElementNotFound:  "Use 'keyframe elements' to see elements on the stage.",
	ErrElementExists:    "Pick a different ID or remove the existing element first.",
	ErrInvalidSID:       "IDs must be alphanumeric with dashes, underscores, or periods (max 32 chars).",
	ErrInvalidProperty:  "Properties are name, kind, x, y, layer, solution, or any custom key.",
	ErrInvalidTimestamp: "Try formats like '10 minutes ago', 'yesterday at 3pm', or 'today'.",
	ErrInvalidDuration:  "Try formats like '2s', '1500ms', or '1m'.",
	ErrEmptyGroup:       "Add at least one operation to the batch file.",

	// System
	ErrDiskFull:          "Free up disk space and try again.",
	ErrDatabaseCorrupted: "Move the data directory aside and start a new session.",
	ErrLockHeld:          "Another keyframe session is running. Close it or wait for it to finish.",
	ErrPermissionDenied:  "Check file permissions in your data directory (~/.local/share/keyframe/).",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// A UserError's own suggestion is more specific than the sentinel's.
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}

// CommandExamples provides example commands for common errors.
var CommandExamples = map[error][]string{
	ErrNothingToUndo: {
		"keyframe add hero --x 10 --y 20",
		"keyframe undo",
	},
	ErrCheckpointNotFound: {
		"keyframe checkpoint before-layout",
		"keyframe undo --to before-layout",
	},
	ErrDependencyConflict: {
		"keyframe deps <command-id>",
		"keyframe undo -n 2",
	},
}

// GetExamples returns example commands for an error.
func GetExamples(err error) []string {
	for knownErr, examples := range CommandExamples {
		if errors.Is(err, knownErr) {
			return examples
		}
	}
	return nil
}
