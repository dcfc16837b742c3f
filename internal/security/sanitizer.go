package security

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

const maxDisplayNameRunes = 64

// SanitizeString trims, drops null bytes and caps the length at 1000 bytes
// without splitting a rune.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return truncate(input, 1000)
}

// SanitizeHTML strips tags and escapes the rest so the result is safe to embed
// in a message sent with HTML parse mode.
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeDisplayName prepares a user-controlled name for HTML messages.
func SanitizeDisplayName(name string) string {
	name = SanitizeString(name)
	if utf8.RuneCountInString(name) > maxDisplayNameRunes {
		name = string([]rune(name)[:maxDisplayNameRunes])
	}
	return SanitizeHTML(name)
}

func truncate(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && cut > maxBytes-utf8.UTFMax && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
