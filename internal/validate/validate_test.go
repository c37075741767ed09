package validate

import (
	"math"
	"strings"
	"testing"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ElementID Tests
// =============================================================================

func TestElementID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "hero", false},
		{"with_numbers", "cam2", false},
		{"with_dash", "bg-layer", false},
		{"with_period", "light.key", false},
		{"max_length", strings.Repeat("a", 64), false},

		{"empty", "", true},
		{"too_long", strings.Repeat("a", 65), true},
		{"starts_with_dash", "-hero", true},
		{"with_space", "main camera", true},
		{"reserved", "all", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ElementID(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidSID))
				assert.True(t, errors.IsUserError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestElementIDSuggestsConversion(t *testing.T) {
	err := ElementID("Main Camera")
	ue, ok := errors.AsUserError(err)
	require.True(t, ok)
	assert.Equal(t, "Try 'main-camera'", ue.Suggestion)
}

// =============================================================================
// Name / Kind / Property Tests
// =============================================================================

func TestElementName(t *testing.T) {
	assert.NoError(t, ElementName(""))
	assert.NoError(t, ElementName("Hero Sprite"))
	assert.NoError(t, ElementName(strings.Repeat("é", MaxNameLength)))
	assert.Error(t, ElementName(strings.Repeat("a", MaxNameLength+1)))
}

func TestKind(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"", false},
		{"sprite", false},
		{"light_point", false},
		{"2d", true},
		{"has space", true},
		{strings.Repeat("k", MaxKindLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if tt.wantErr {
				assert.Error(t, Kind(tt.kind))
			} else {
				assert.NoError(t, Kind(tt.kind))
			}
		})
	}
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		name     string
		property string
		wantErr  bool
	}{
		{"simple", "opacity", false},
		{"underscore", "_hidden", false},
		{"dotted", "shadow.blur", false},
		{"empty", "", true},
		{"leading_digit", "1st", true},
		{"space", "line width", true},
		{"too_long", strings.Repeat("p", MaxPropertyNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PropertyName(tt.property)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidProperty))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSolutionName(t *testing.T) {
	assert.NoError(t, SolutionName("ghost"))
	assert.Error(t, SolutionName(""))
	assert.Error(t, SolutionName("not valid"))
}

// =============================================================================
// Checkpoint / Command Ref Tests
// =============================================================================

func TestCheckpointName(t *testing.T) {
	tests := []struct {
		name       string
		checkpoint string
		wantErr    bool
	}{
		{"simple", "before lighting", false},
		{"unicode", "première passe", false},
		{"max_length", strings.Repeat("c", MaxCheckpointNameLength), false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"too_long", strings.Repeat("c", MaxCheckpointNameLength+1), true},
		{"control", "bad\x07name", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				assert.Error(t, CheckpointName(tt.checkpoint))
			} else {
				assert.NoError(t, CheckpointName(tt.checkpoint))
			}
		})
	}
}

func TestCommandRef(t *testing.T) {
	assert.NoError(t, CommandRef("0192"))
	assert.NoError(t, CommandRef("0192f3a0-7c1e-7000-8000-000000000000"))
	assert.Error(t, CommandRef("019"))
	assert.Error(t, CommandRef(""))
}

// =============================================================================
// Numeric Tests
// =============================================================================

func TestCoordinate(t *testing.T) {
	assert.NoError(t, Coordinate("x", 0))
	assert.NoError(t, Coordinate("y", -12.5))
	assert.Error(t, Coordinate("x", math.NaN()))
	assert.Error(t, Coordinate("y", math.Inf(1)))
}

func TestNonEmpty(t *testing.T) {
	assert.NoError(t, NonEmpty("field", "value"))
	assert.Error(t, NonEmpty("field", ""))
	assert.Error(t, NonEmpty("field", "   "))
}

func TestInRange(t *testing.T) {
	assert.NoError(t, InRange("max_history", 1, 1, 1000))
	assert.NoError(t, InRange("max_history", 1000, 1, 1000))

	err := InRange("max_history", 1001, 1, 1000)
	require.Error(t, err)
	ue, ok := errors.AsUserError(err)
	require.True(t, ok)
	assert.Equal(t, "Must be between 1 and 1000", ue.Suggestion)
}

func TestNonNegative(t *testing.T) {
	assert.NoError(t, NonNegative("layer", 0))
	assert.Error(t, NonNegative("layer", -1))
}

// =============================================================================
// Sanitize Tests
// =============================================================================

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Hero", SanitizeName("  Hero\t"))
	assert.Equal(t, "HeroSprite", SanitizeName("Hero\x00Sprite"))
}

func TestSanitizeDescription(t *testing.T) {
	assert.Equal(t, "line1\nline2\nline3", SanitizeDescription(" line1\r\nline2\rline3 "))
	assert.Equal(t, "ab", SanitizeDescription("a\x00b"))
}

func TestStripControlChars(t *testing.T) {
	assert.Equal(t, "a\nb\tc", StripControlChars("a\nb\tc\x1b"))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is long", 8, "this ..."},
		{"abcdef", 2, "ab"},
		{"ééééé", 4, "é..."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateString(tt.in, tt.max))
		})
	}
}
