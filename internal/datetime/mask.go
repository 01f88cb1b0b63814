// Package datetime turns typed date and time text into the canonical
// DD.MM.YYYY and HH:MM forms stored on event records.
package datetime

import (
	"strings"
	"unicode"
)

const (
	dateDigits = 8
	timeDigits = 4
)

// FormatDateInput renders raw keystrokes as the DD.MM.YYYY mask. Non-digits
// are dropped and anything past eight digits is discarded; partial input is
// never rejected.
func FormatDateInput(raw string) string {
	digits := truncate(onlyDigits(raw), dateDigits)

	switch n := len(digits); {
	case n <= 2:
		return digits
	case n <= 4:
		return digits[:2] + "." + digits[2:]
	default:
		return digits[:2] + "." + digits[2:4] + "." + digits[4:]
	}
}

// FormatTimeInput renders raw keystrokes as the HH:MM mask.
func FormatTimeInput(raw string) string {
	digits := truncate(onlyDigits(raw), timeDigits)

	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + ":" + digits[2:]
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
