package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateElementID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		// Valid IDs
		{"simple_lowercase", "hero", true},
		{"with_hyphen", "main-camera", true},
		{"with_underscore", "bg_layer", true},
		{"with_period", "light.key", true},
		{"with_numbers", "tree42", true},
		{"uppercase", "Hero", true},
		{"max_length", strings.Repeat("a", MaxElementIDLength), true},

		// Invalid IDs
		{"empty", "", false},
		{"too_long", strings.Repeat("a", MaxElementIDLength+1), false},
		{"with_space", "main camera", false},
		{"with_special_chars", "hero@1", false},
		{"with_slash", "a/b", false},
		{"leading_hyphen", "-hero", false},

		// Reserved IDs
		{"reserved_all", "all", false},
		{"reserved_list", "list", false},
		{"reserved_case_insensitive", "SHOW", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateElementID(tt.id), "ValidateElementID(%q)", tt.id)
		})
	}
}

func TestConvertToElementID(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		expected    string
	}{
		{"simple", "Main Camera", "main-camera"},
		{"with_special_chars", "Main Camera #2", "main-camera-2"},
		{"multiple_spaces", "Main  Camera", "main-camera"},
		{"leading_trailing_spaces", "  Hero  ", "hero"},
		{"only_special", "!!!", ""},
		{"trailing_period", "hero.", "hero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConvertToElementID(tt.displayName))
		})
	}

	t.Run("truncates", func(t *testing.T) {
		assert.Len(t, ConvertToElementID(strings.Repeat("x", 100)), MaxElementIDLength)
	})
}
