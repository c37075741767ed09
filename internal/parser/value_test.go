package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{"integer", "42", 42.0},
		{"float", "0.5", 0.5},
		{"negative", "-3", -3.0},
		{"true", "true", true},
		{"false", "false", false},
		{"null", "null", nil},
		{"tilde", "~", nil},
		{"text", "red", "red"},
		{"text_with_spaces", "hello world", "hello world"},
		{"quoted_number", `"42"`, "42"},
		{"hash_is_text", "#ff0000", "#ff0000"},
		{"empty", "", ""},
		{"list", "[1, two]", []any{1.0, "two"}},
		{"map", "{depth: 2}", map[string]any{"depth": 2.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseValue(tt.input))
		})
	}
}

func TestParseAssignments(t *testing.T) {
	props, err := ParseAssignments([]string{"opacity=0.5", "tint=red", "visible=true", "label=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"opacity": 0.5,
		"tint":    "red",
		"visible": true,
		"label":   "a=b",
	}, props)

	_, err = ParseAssignments([]string{"novalue"})
	assert.True(t, errors.Is(err, errors.ErrInvalidProperty))

	_, err = ParseAssignments([]string{"=1"})
	assert.Error(t, err)
}

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition("10", "-2.5")
	require.NoError(t, err)
	assert.Equal(t, model.Position{X: 10, Y: -2.5}, pos)

	_, err = ParsePosition("left", "0")
	assert.True(t, errors.Is(err, errors.ErrInvalidProperty))

	_, err = ParsePosition("0", "")
	assert.Error(t, err)
}

func TestParseLayer(t *testing.T) {
	n, err := ParseLayer(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseLayer("-1")
	assert.True(t, errors.IsUserError(err))

	_, err = ParseLayer("1.5")
	assert.True(t, errors.Is(err, errors.ErrInvalidProperty))
}
