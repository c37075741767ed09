package parser

import (
	"fmt"
	"strings"

	"github.com/keyframe-studio/keyframe/internal/errors"
)

// ParseError represents an argument parsing error with helpful examples.
type ParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
	Cause      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// FormatWithExamples returns the error message with example suggestions.
func (e *ParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// DurationExamples provides example duration formats.
var DurationExamples = []string{
	"2",
	"2s",
	"500ms",
	"1.5 seconds",
	"1m30s",
}

// TimestampExamples provides example --since formats.
var TimestampExamples = []string{
	"10 minutes ago",
	"today",
	"this hour",
	"yesterday",
	"2026-01-02 15:04",
}

// PositionExamples provides example coordinate formats.
var PositionExamples = []string{
	"120",
	"-4.5",
	"0",
}

// AssignmentExamples provides example key=value formats.
var AssignmentExamples = []string{
	"opacity=0.5",
	"visible=true",
	"tint=red",
	"tags=[hero, lead]",
}

// NewDurationError creates a duration parse error with standard examples.
func NewDurationError(input string) *ParseError {
	return &ParseError{
		Input:      input,
		Field:      "duration",
		Message:    "could not parse duration",
		Examples:   DurationExamples,
		Suggestion: "A bare number is read as seconds.",
		Cause:      errors.ErrInvalidDuration,
	}
}

// NewTimestampError creates a timestamp parse error with standard examples.
func NewTimestampError(input string) *ParseError {
	return &ParseError{
		Input:      input,
		Field:      "timestamp",
		Message:    "could not parse time",
		Examples:   TimestampExamples,
		Suggestion: "Try natural language like '10 minutes ago' or 'today'.",
		Cause:      errors.ErrInvalidTimestamp,
	}
}

// NewPositionError creates a coordinate parse error.
func NewPositionError(input string) *ParseError {
	return &ParseError{
		Input:    input,
		Field:    "coordinate",
		Message:  "expected a number",
		Examples: PositionExamples,
		Cause:    errors.ErrInvalidProperty,
	}
}

// NewAssignmentError creates a key=value parse error.
func NewAssignmentError(input string) *ParseError {
	return &ParseError{
		Input:    input,
		Field:    "assignment",
		Message:  "expected key=value",
		Examples: AssignmentExamples,
		Cause:    errors.ErrInvalidProperty,
	}
}

// ToUserError converts a ParseError to a UserError for consistent handling.
func (e *ParseError) ToUserError() *errors.UserError {
	suggestion := e.Suggestion
	if len(e.Examples) > 0 && suggestion == "" {
		suggestion = fmt.Sprintf("Try: %s", strings.Join(e.Examples[:min(3, len(e.Examples))], ", "))
	}

	return errors.NewUserErrorWithField(e.Field, e.Input, e.Message, suggestion).WithCause(e.Cause)
}
