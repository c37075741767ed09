// Package errors provides consistent error types for keyframe.
// It defines two main categories: UserError (fixable by the user) and
// SystemError (storage or environment issues), plus the sentinel errors the
// history engine reports instead of boolean failures.
package errors

import (
	"errors"
	"fmt"
)

// History engine sentinels.
var (
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNothingToRedo      = errors.New("nothing to redo")
	ErrCheckpointNotFound = errors.New("checkpoint not found in undo history")
	ErrCommandNotFound    = errors.New("command not found in undo history")
	ErrDependencyConflict = errors.New("a later command depends on this command")
	ErrPartialUndo        = errors.New("undo stopped before reaching the checkpoint")
	ErrCommandPanicked    = errors.New("command panicked")
	ErrUnknownCommandKind = errors.New("unknown command kind")
)

// Element store and input sentinels.
var (
	ErrElementNotFound  = errors.New("element not found")
	ErrElementExists    = errors.New("element already exists")
	ErrInvalidSID       = errors.New("invalid element ID")
	ErrInvalidProperty  = errors.New("invalid property")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrEmptyGroup       = errors.New("group has no operations")
)

// System sentinels.
var (
	ErrDiskFull          = errors.New("disk full")
	ErrDatabaseCorrupted = errors.New("database corrupted")
	ErrLockHeld          = errors.New("database locked by another process")
	ErrPermissionDenied  = errors.New("permission denied")
)

// UserError represents an error that the user can fix.
type UserError struct {
	Message    string // What happened
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
	Cause      error  // Sentinel this error refines (optional)
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// WithCause attaches the sentinel this error refines so errors.Is still matches.
func (e *UserError) WithCause(cause error) *UserError {
	e.Cause = cause
	return e
}

// SystemError represents a system-level error that the user cannot directly fix.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
	}
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsSystemError extracts a SystemError from an error chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join is re-exported so callers importing this package need not alias the stdlib.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Chain returns the full error chain as a slice of error messages.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}

// RootCause returns the deepest wrapped error in the chain.
func RootCause(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
