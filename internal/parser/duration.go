package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DurationResult represents the result of parsing a duration.
type DurationResult struct {
	Duration time.Duration
	Valid    bool
}

// durationPattern matches expressions like "2s", "500ms", "1.5 seconds", "1m30s".
var durationPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(ms|msec|millis|milliseconds?|s|secs?|seconds?|m|mins?|minutes?)?(?:\s*(\d+(?:\.\d+)?)\s*(s|secs?|seconds?))?$`)

// ParseDuration parses a human-readable duration. A bare number is read as
// seconds.
// Supports formats like:
//   - "2" or "2.5"
//   - "2s" or "2 seconds"
//   - "500ms"
//   - "1m30s" or "1 minute 30 seconds"
func ParseDuration(input string) DurationResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return DurationResult{}
	}

	if d, err := time.ParseDuration(input); err == nil {
		if d < 0 {
			return DurationResult{}
		}
		return DurationResult{Duration: d, Valid: true}
	}

	matches := durationPattern.FindStringSubmatch(input)
	if matches == nil {
		return DurationResult{}
	}

	value, _ := strconv.ParseFloat(matches[1], 64)
	total := unitToDuration(value, strings.ToLower(matches[2]))

	if matches[3] != "" {
		value, _ := strconv.ParseFloat(matches[3], 64)
		total += unitToDuration(value, strings.ToLower(matches[4]))
	}

	return DurationResult{Duration: total, Valid: true}
}

// unitToDuration converts a value and unit to a duration. No unit means seconds.
func unitToDuration(value float64, unit string) time.Duration {
	switch {
	case unit == "ms" || strings.HasPrefix(unit, "msec") || strings.HasPrefix(unit, "milli"):
		return time.Duration(value * float64(time.Millisecond))
	case unit == "m" || strings.HasPrefix(unit, "min"):
		return time.Duration(value * float64(time.Minute))
	default:
		return time.Duration(value * float64(time.Second))
	}
}

// FormatSeconds renders d as seconds, e.g. "2s" or "0.5s".
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
