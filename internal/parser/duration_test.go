package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		valid    bool
	}{
		{"bare_seconds", "2", 2 * time.Second, true},
		{"fractional_seconds", "2.5", 2500 * time.Millisecond, true},
		{"go_format", "1m30s", 90 * time.Second, true},
		{"milliseconds", "500ms", 500 * time.Millisecond, true},
		{"words", "3 seconds", 3 * time.Second, true},
		{"minute_and_seconds", "1 minute 30 seconds", 90 * time.Second, true},
		{"minutes", "2 min", 2 * time.Minute, true},
		{"zero", "0", 0, true},
		{"whitespace", "  4s  ", 4 * time.Second, true},

		{"empty", "", 0, false},
		{"text", "soon", 0, false},
		{"negative", "-2s", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseDuration(tt.input)
			assert.Equal(t, tt.valid, result.Valid, "ParseDuration(%q)", tt.input)
			if tt.valid {
				assert.Equal(t, tt.expected, result.Duration)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "2s", FormatSeconds(2*time.Second))
	assert.Equal(t, "0.5s", FormatSeconds(500*time.Millisecond))
	assert.Equal(t, "0s", FormatSeconds(0))
}
