package errors

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// UserError Tests
// =============================================================================

func TestNewUserError(t *testing.T) {
	err := NewUserError("invalid input", "try again")
	assert.NotNil(t, err)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "try again", err.Suggestion)
}

func TestUserErrorError(t *testing.T) {
	t.Run("without_field", func(t *testing.T) {
		err := NewUserError("invalid input", "")
		assert.Equal(t, "invalid input", err.Error())
	})

	t.Run("with_field", func(t *testing.T) {
		err := NewUserErrorWithField("id", "bad id", "invalid element ID", "")
		assert.Equal(t, "invalid element ID: 'bad id'", err.Error())
	})
}

func TestUserErrorWithCause(t *testing.T) {
	err := NewUserErrorWithField("id", "bad id", "invalid element ID", "").WithCause(ErrInvalidSID)
	assert.True(t, errors.Is(err, ErrInvalidSID))
	assert.True(t, IsUserError(fmt.Errorf("wrapped: %w", err)))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(NewUserError("test", "")))
	assert.False(t, IsUserError(errors.New("plain error")))
	assert.False(t, IsUserError(nil))
}

// =============================================================================
// SystemError Tests
// =============================================================================

func TestSystemErrorError(t *testing.T) {
	t.Run("without_op", func(t *testing.T) {
		err := NewSystemError("write failed", ErrDiskFull)
		assert.Equal(t, "write failed", err.Error())
	})

	t.Run("with_op", func(t *testing.T) {
		err := NewSystemErrorWithOp("commit", "write failed", ErrDiskFull)
		assert.Equal(t, "write failed during commit", err.Error())
	})
}

func TestSystemErrorUnwrap(t *testing.T) {
	err := NewSystemError("write failed", ErrDiskFull)
	assert.True(t, errors.Is(err, ErrDiskFull))

	se, ok := AsSystemError(fmt.Errorf("ctx: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "write failed", se.Message)
}

// =============================================================================
// Wrap / Chain Tests
// =============================================================================

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	err := Wrap(ErrElementNotFound, "remove hero")
	assert.Equal(t, "remove hero: element not found", err.Error())
	assert.True(t, errors.Is(err, ErrElementNotFound))
}

func TestWrapf(t *testing.T) {
	err := Wrapf(ErrElementNotFound, "remove %s", "hero")
	assert.Equal(t, "remove hero: element not found", err.Error())
}

func TestChainAndRootCause(t *testing.T) {
	err := Wrap(Wrap(ErrNothingToUndo, "inner"), "outer")

	chain := Chain(err)
	assert.Len(t, chain, 3)
	assert.Equal(t, ErrNothingToUndo, RootCause(err))
	assert.Nil(t, Chain(nil))
}

// =============================================================================
// Classification Tests
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryUnknown},
		{"plain", errors.New("boom"), CategoryUnknown},
		{"nothing_to_undo", ErrNothingToUndo, CategoryHistory},
		{"dependency_conflict", Wrap(ErrDependencyConflict, "selective undo"), CategoryHistory},
		{"partial_undo", Wrapf(ErrPartialUndo, "checkpoint %q", "cp"), CategoryHistory},
		{"element_not_found", ErrElementNotFound, CategoryUser},
		{"user_error", NewUserError("bad", ""), CategoryUser},
		{"disk_full", ErrDiskFull, CategorySystem},
		{"errno", syscall.ENOSPC, CategorySystem},
		{"panic", Wrap(ErrCommandPanicked, "move hero"), CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "user", CategoryUser.String())
	assert.Equal(t, "history", CategoryHistory.String())
	assert.Equal(t, "system", CategorySystem.String())
	assert.Equal(t, "internal", CategoryInternal.String())
	assert.Equal(t, "unknown", CategoryUnknown.String())
}

func TestFormatByCategory(t *testing.T) {
	assert.Equal(t, "", FormatByCategory(nil))

	msg := FormatByCategory(ErrNothingToUndo)
	assert.Contains(t, msg, "nothing to undo")
	assert.Contains(t, msg, "Try:")

	msg = FormatByCategory(ErrLockHeld)
	assert.Contains(t, msg, "System error:")

	msg = FormatByCategory(Wrap(ErrCommandPanicked, "x"))
	assert.Contains(t, msg, "Internal error:")
}

// =============================================================================
// Suggestion Tests
// =============================================================================

func TestGetSuggestion(t *testing.T) {
	assert.Equal(t, "", GetSuggestion(nil))
	assert.Contains(t, GetSuggestion(ErrCheckpointNotFound), "checkpoint list")
	assert.Contains(t, GetSuggestion(Wrap(ErrPartialUndo, "cp")), "keyframe history")
	assert.Contains(t, GetSuggestion(Wrap(ErrElementNotFound, "x")), "keyframe elements")

	ue := NewUserError("bad id", "use lowercase").WithCause(ErrInvalidSID)
	assert.Equal(t, "use lowercase", GetSuggestion(ue))
}

func TestGetExamples(t *testing.T) {
	assert.NotEmpty(t, GetExamples(ErrNothingToUndo))
	assert.Nil(t, GetExamples(errors.New("other")))
}
