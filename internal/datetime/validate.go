package datetime

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	minYear = 1900
	maxYear = 2100
)

// IsDateValid reports whether text holds a usable date. Empty input is valid
// because the field is optional. Otherwise exactly eight digits are required,
// read as day [1,31], month [1,12] and year [1900,2100]. Days are not checked
// against the length of the month, so 31.02.2024 passes.
func IsDateValid(text string) bool {
	digits := onlyDigits(text)
	if digits == "" {
		return true
	}
	_, _, _, ok := splitDate(digits)
	return ok
}

// IsTimeValid reports whether text holds a usable time. Empty input is valid;
// otherwise exactly four digits with hour [0,23] and minute [0,59].
func IsTimeValid(text string) bool {
	digits := onlyDigits(text)
	if digits == "" {
		return true
	}
	if len(digits) != timeDigits {
		return false
	}
	hour, _ := strconv.Atoi(digits[:2])
	minute, _ := strconv.Atoi(digits[2:])
	return inRange(hour, 0, 23) && inRange(minute, 0, 59)
}

// Validate checks both fields and returns the first failure.
func Validate(date, clock string) error {
	if !IsDateValid(date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, strings.TrimSpace(date))
	}
	if !IsTimeValid(clock) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, strings.TrimSpace(clock))
	}
	return nil
}

// NormalizeDate returns the canonical DD.MM.YYYY form of text. The second
// result is false when text is blank. Text that does not carry exactly eight
// digits is returned trimmed but otherwise untouched.
func NormalizeDate(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	digits := onlyDigits(trimmed)
	if len(digits) != dateDigits {
		return trimmed, true
	}
	return digits[:2] + "." + digits[2:4] + "." + digits[4:], true
}

// NormalizeTime returns the zero-padded HH:MM form of text when it splits on
// ':' into two in-range integers; anything else comes back trimmed.
func NormalizeTime(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	if hour, minute, ok := splitClock(trimmed); ok && inRange(hour, 0, 23) && inRange(minute, 0, 59) {
		return fmt.Sprintf("%02d:%02d", hour, minute), true
	}
	return trimmed, true
}

// splitDate reads eight digits as DDMMYYYY and range-checks each part.
func splitDate(digits string) (day, month, year int, ok bool) {
	if len(digits) != dateDigits {
		return 0, 0, 0, false
	}
	day, _ = strconv.Atoi(digits[:2])
	month, _ = strconv.Atoi(digits[2:4])
	year, _ = strconv.Atoi(digits[4:])
	if !inRange(day, 1, 31) || !inRange(month, 1, 12) || !inRange(year, minYear, maxYear) {
		return 0, 0, 0, false
	}
	return day, month, year, true
}

// splitClock splits "H:M" into integers without range checks.
func splitClock(text string) (hour, minute int, ok bool) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// ParseClock reads an "H:M" time of day and reports whether both parts are in range.
func ParseClock(text string) (hour, minute int, ok bool) {
	hour, minute, ok = splitClock(strings.TrimSpace(text))
	if !ok || !inRange(hour, 0, 23) || !inRange(minute, 0, 59) {
		return 0, 0, false
	}
	return hour, minute, true
}
