package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeDigits converts Persian and Arabic numerals to ASCII digits
func NormalizeDigits(input string) string {
	replacer := strings.NewReplacer(
		"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4", "۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
		"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4", "٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	)
	return replacer.Replace(input)
}

// FirstNumber returns the first run of digits in input as an int, so labels
// like "Option 3" or "گزینه ۳" both yield 3.
func FirstNumber(input string) (int, bool) {
	input = NormalizeDigits(input)

	start := strings.IndexFunc(input, unicode.IsDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(input) && input[end] >= '0' && input[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(input[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
