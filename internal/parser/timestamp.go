package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// TimestampResult holds the parsed timestamp and any error.
type TimestampResult struct {
	Time  time.Time
	Error error
}

// periodRegex matches period expressions like "this hour" or "last day".
var periodRegex = regexp.MustCompile(`(?i)^(this|current|last|previous)\s+(hour|day|week)$`)

// ParseTimestamp parses a natural language timestamp relative to now.
func ParseTimestamp(input string) TimestampResult {
	return ParseTimestampAt(input, time.Now())
}

// ParseTimestampAt parses a natural language timestamp relative to now,
// e.g. "10 minutes ago", "today", "this hour" or "2026-01-02 15:04".
func ParseTimestampAt(input string, now time.Time) TimestampResult {
	input = strings.TrimSpace(input)
	lower := strings.ToLower(input)
	if input == "" || lower == "now" {
		return TimestampResult{Time: now}
	}

	switch lower {
	case "today":
		return TimestampResult{Time: startOfDay(now)}
	case "yesterday":
		return TimestampResult{Time: startOfDay(now).AddDate(0, 0, -1)}
	}

	if match := periodRegex.FindStringSubmatch(input); match != nil {
		return TimestampResult{Time: periodStart(now, strings.ToLower(match[1]), strings.ToLower(match[2]))}
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return TimestampResult{Error: NewTimestampError(input)}
	}
	return TimestampResult{Time: result.Time}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// periodStart returns the start of the current or previous hour, day or week.
func periodStart(now time.Time, modifier, period string) time.Time {
	previous := modifier == "last" || modifier == "previous"

	switch period {
	case "hour":
		t := now.Truncate(time.Hour)
		if previous {
			t = t.Add(-time.Hour)
		}
		return t
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		t := startOfDay(now).AddDate(0, 0, 1-weekday)
		if previous {
			t = t.AddDate(0, 0, -7)
		}
		return t
	default:
		t := startOfDay(now)
		if previous {
			t = t.AddDate(0, 0, -1)
		}
		return t
	}
}
