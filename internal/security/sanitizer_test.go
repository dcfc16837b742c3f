package security

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain name",
			input:    "Alice",
			expected: "Alice",
		},
		{
			name:     "Surrounding whitespace",
			input:    "  @bob  ",
			expected: "@bob",
		},
		{
			name:     "Markup is stripped",
			input:    "<b>Eve</b>",
			expected: "Eve",
		},
		{
			name:     "Script tag is removed",
			input:    "Mallory<script>alert(1)</script>",
			expected: "Mallory",
		},
		{
			name:     "Null bytes removed",
			input:    "Tr\x00udy",
			expected: "Trudy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeDisplayName(tt.input); got != tt.expected {
				t.Errorf("SanitizeDisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeDisplayName_Length(t *testing.T) {
	long := strings.Repeat("й", 100)

	got := SanitizeDisplayName(long)
	if n := utf8.RuneCountInString(got); n != maxDisplayNameRunes {
		t.Errorf("rune count = %d, want %d", n, maxDisplayNameRunes)
	}
}

func TestSanitizeString_KeepsValidUTF8(t *testing.T) {
	input := strings.Repeat("é", 600) // 1200 bytes

	got := SanitizeString(input)
	if len(got) > 1000 {
		t.Errorf("len = %d, want <= 1000", len(got))
	}
	if !utf8.ValidString(got) {
		t.Error("SanitizeString() produced invalid UTF-8")
	}
}

func TestSanitizeHTML_EscapesText(t *testing.T) {
	got := SanitizeHTML("Is 2 < 3 & 4 > 1?")
	if strings.ContainsAny(got, "<>") {
		t.Errorf("SanitizeHTML() = %q, angle brackets should be escaped", got)
	}
}

func TestSanitizeString_InvalidByteBeforeCut(t *testing.T) {
	input := "\xff" + strings.Repeat("a", 1200)

	got := SanitizeString(input)
	if len(got) != 1000 {
		t.Errorf("len = %d, want 1000", len(got))
	}
	if !strings.HasPrefix(got, "\xffaaa") {
		t.Errorf("SanitizeString() dropped the prefix: %q", got[:8])
	}
}

func TestSanitizeString_CutInsideRune(t *testing.T) {
	input := strings.Repeat("a", 999) + "€tail" // € is 3 bytes, starting at 999

	got := SanitizeString(input)
	if got != strings.Repeat("a", 999) {
		t.Errorf("len = %d, want 999", len(got))
	}
}
