// Package parser provides argument parsing for keyframe: element IDs,
// property values, positions, durations and time filters.
package parser

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxElementIDLength is the maximum length of an element ID.
	MaxElementIDLength = 64
)

var (
	// elementIDRegex validates element IDs: alphanumeric, dash, underscore, period.
	elementIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*$`)

	// reservedIDs collide with subcommand words.
	reservedIDs = map[string]bool{
		"all":  true,
		"list": true,
		"show": true,
		"none": true,
	}
)

// ValidateElementID checks if a string is a valid element ID.
func ValidateElementID(id string) bool {
	if id == "" || len(id) > MaxElementIDLength {
		return false
	}
	if reservedIDs[strings.ToLower(id)] {
		return false
	}
	return elementIDRegex.MatchString(id)
}

// ConvertToElementID converts a display name to a valid element ID.
// Example: "Main Camera #2" -> "main-camera-2"
func ConvertToElementID(displayName string) string {
	result := strings.ToLower(strings.TrimSpace(displayName))
	result = strings.ReplaceAll(result, " ", "-")

	var sb strings.Builder
	for _, r := range result {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			sb.WriteRune(r)
		}
	}
	result = sb.String()

	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	result = strings.Trim(result, "-_.")

	if len(result) > MaxElementIDLength {
		result = result[:MaxElementIDLength]
	}
	return result
}
