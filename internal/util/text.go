package util

import "strings"

// SanitizePostgresText strips invalid UTF-8 sequences and NUL bytes, both
// of which postgres rejects in text columns. Applied to prompt content on
// the way in, notably for imported files of unknown provenance.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}
	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}
