package datetime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stamp renders t in the canonical date and time forms, in t's location.
func Stamp(t time.Time) (date, clock string) {
	date = fmt.Sprintf("%02d.%02d.%04d", t.Day(), int(t.Month()), t.Year())
	clock = fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
	return date, clock
}

// ParseAnchor builds the instant described by a stored date and optional
// time in loc. The date must carry exactly eight digits (DDMMYYYY); out of
// range components roll over the way time.Date normalizes them. A missing or
// malformed time means midnight; a part that does not parse counts as zero.
func ParseAnchor(date, clock string, loc *time.Location) (time.Time, bool) {
	digits := onlyDigits(date)
	if len(digits) != dateDigits {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	day, _ := strconv.Atoi(digits[:2])
	month, _ := strconv.Atoi(digits[2:4])
	year, _ := strconv.Atoi(digits[4:])

	var hour, minute int
	if parts := strings.Split(strings.TrimSpace(clock), ":"); len(parts) == 2 {
		hour, _ = strconv.Atoi(parts[0])
		minute, _ = strconv.Atoi(parts[1])
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), true
}
