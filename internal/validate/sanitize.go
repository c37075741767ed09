package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeName trims whitespace and removes control characters from a
// display name, element name or checkpoint name.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)

	var sb strings.Builder
	for _, r := range name {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// SanitizeDescription cleans a free-form description for storage.
func SanitizeDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	desc = strings.ReplaceAll(desc, "\x00", "")
	desc = strings.ReplaceAll(desc, "\r\n", "\n")
	desc = strings.ReplaceAll(desc, "\r", "\n")
	return desc
}

// StripControlChars removes control characters except newline and tab.
func StripControlChars(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// TruncateString truncates s to maxLen runes, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
