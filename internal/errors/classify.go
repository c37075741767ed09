package errors

import (
	"errors"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, missing element).
	CategoryUser
	// CategoryHistory indicates the timeline refused the operation (empty stack, conflict).
	CategoryHistory
	// CategorySystem indicates a system-level error (disk full, lock held).
	CategorySystem
	// CategoryInternal indicates a bug inside a command.
	CategoryInternal
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategoryHistory:
		return "history"
	case CategorySystem:
		return "system"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	if errors.Is(err, ErrCommandPanicked) {
		return CategoryInternal
	}
	if isHistoryRefusal(err) {
		return CategoryHistory
	}
	if IsUserError(err) || isUserSentinel(err) {
		return CategoryUser
	}
	if IsSystemError(err) || isSystemLevel(err) {
		return CategorySystem
	}

	return CategoryUnknown
}

func isHistoryRefusal(err error) bool {
	return errors.Is(err, ErrNothingToUndo) ||
		errors.Is(err, ErrNothingToRedo) ||
		errors.Is(err, ErrCheckpointNotFound) ||
		errors.Is(err, ErrCommandNotFound) ||
		errors.Is(err, ErrDependencyConflict) ||
		errors.Is(err, ErrPartialUndo)
}

func isUserSentinel(err error) bool {
	return errors.Is(err, ErrElementNotFound) ||
		errors.Is(err, ErrElementExists) ||
		errors.Is(err, ErrInvalidSID) ||
		errors.Is(err, ErrInvalidProperty) ||
		errors.Is(err, ErrInvalidTimestamp) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrEmptyGroup)
}

// isSystemLevel checks if an error is a system-level error.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	return errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrDatabaseCorrupted) ||
		errors.Is(err, ErrLockHeld) ||
		errors.Is(err, ErrPermissionDenied)
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch Classify(err) {
	case CategoryUser, CategoryHistory:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg

	case CategorySystem:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg

	case CategoryInternal:
		return "Internal error: " + msg

	default:
		return msg
	}
}
