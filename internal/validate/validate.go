// Package validate provides input validation helpers for the keyframe CLI.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/parser"
)

const (
	// MaxNameLength is the maximum length for an element display name.
	MaxNameLength = 128
	// MaxKindLength is the maximum length for an element kind.
	MaxKindLength = 32
	// MaxPropertyNameLength is the maximum length for a property name.
	MaxPropertyNameLength = 64
	// MaxCheckpointNameLength is the maximum length for a checkpoint name.
	MaxCheckpointNameLength = 64
	// MaxSolutionNameLength is the maximum length for a solution name.
	MaxSolutionNameLength = 64
	// MinCommandRefLength is the shortest command ID prefix accepted.
	MinCommandRefLength = 4
)

// identRegex validates property names, kinds and solution names.
var identRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.-]*$`)

// ElementID validates an element ID.
func ElementID(id string) error {
	if id == "" {
		return errors.NewUserError("Element ID cannot be empty", "Provide an element ID like 'hero' or 'bg-layer'").
			WithCause(errors.ErrInvalidSID)
	}
	if !parser.ValidateElementID(id) {
		suggestion := fmt.Sprintf("Element IDs must start with a letter or number, contain only letters, numbers, dashes, underscores or periods, and be %d characters or fewer", parser.MaxElementIDLength)
		if converted := parser.ConvertToElementID(id); converted != "" && parser.ValidateElementID(converted) {
			suggestion = fmt.Sprintf("Try '%s'", converted)
		}
		return errors.NewUserErrorWithField("id", id, "Invalid element ID", suggestion).
			WithCause(errors.ErrInvalidSID)
	}
	return nil
}

// ElementName validates an element display name. Empty names are allowed.
func ElementName(name string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField("name", name,
			"Element name too long",
			fmt.Sprintf("Names must be %d characters or fewer", MaxNameLength))
	}
	return nil
}

// Kind validates an element kind. Empty kinds are allowed.
func Kind(kind string) error {
	if kind == "" {
		return nil
	}
	if len(kind) > MaxKindLength || !identRegex.MatchString(kind) {
		return errors.NewUserErrorWithField("kind", kind,
			"Invalid element kind",
			"Kinds are short identifiers like 'sprite', 'camera' or 'light'")
	}
	return nil
}

// PropertyName validates a property name.
func PropertyName(name string) error {
	if name == "" {
		return errors.NewUserError("Property name cannot be empty", "Name a property like 'opacity' or 'x'").
			WithCause(errors.ErrInvalidProperty)
	}
	if len(name) > MaxPropertyNameLength || !identRegex.MatchString(name) {
		return errors.NewUserErrorWithField("property", name,
			"Invalid property name",
			"Property names start with a letter or underscore and contain letters, numbers, '_', '.' or '-'").
			WithCause(errors.ErrInvalidProperty)
	}
	return nil
}

// SolutionName validates a solution name.
func SolutionName(name string) error {
	if name == "" {
		return errors.NewUserError("Solution name cannot be empty", "Name the solution, e.g. 'ghost'")
	}
	if len(name) > MaxSolutionNameLength || !identRegex.MatchString(name) {
		return errors.NewUserErrorWithField("solution", name,
			"Invalid solution name",
			"Solution names are identifiers like 'ghost' or 'glow_2'")
	}
	return nil
}

// CheckpointName validates a checkpoint name.
func CheckpointName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewUserError("Checkpoint name cannot be empty", "Try: keyframe checkpoint \"before lighting\"")
	}
	if utf8.RuneCountInString(name) > MaxCheckpointNameLength {
		return errors.NewUserErrorWithField("checkpoint", name,
			"Checkpoint name too long",
			fmt.Sprintf("Checkpoint names must be %d characters or fewer", MaxCheckpointNameLength))
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return errors.NewUserErrorWithField("checkpoint", name,
				"Checkpoint name contains control characters",
				"Use printable characters only")
		}
	}
	return nil
}

// CommandRef validates a command ID or ID prefix given on the command line.
func CommandRef(ref string) error {
	if len(ref) < MinCommandRefLength {
		return errors.NewUserErrorWithField("command", ref,
			"Command reference too short",
			fmt.Sprintf("Give at least %d characters of the command ID (see: keyframe history)", MinCommandRefLength))
	}
	return nil
}

// Coordinate validates a position component.
func Coordinate(axis string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.NewUserErrorWithField(axis, fmt.Sprint(v),
			"Invalid coordinate",
			"Coordinates must be finite numbers")
	}
	return nil
}

// NonEmpty validates that a string is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}

// InRange validates that an integer is within [min, max].
func InRange(field string, value, min, max int) error {
	if value < min || value > max {
		return errors.NewUserErrorWithField(field, fmt.Sprint(value),
			"Value out of range",
			fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return nil
}

// NonNegative validates that an integer is zero or greater.
func NonNegative(field string, value int) error {
	if value < 0 {
		return errors.NewUserErrorWithField(field, fmt.Sprint(value),
			"Value must not be negative",
			"Use 0 or a positive number")
	}
	return nil
}
