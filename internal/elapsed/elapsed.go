// Package elapsed renders "time since" readouts such as "3 days, 5 hours ago".
//
// Differences are calendar based and evaluated in an explicit location:
//   - whole months are counted first; stepping a month from a day the target
//     month does not have lands on that month's last day (Jan 31 -> Feb 29);
//   - whole calendar days follow, so a DST change does not eat a day;
//   - hours and minutes are what remains of the elapsed duration, capped
//     below a full day so a 25-hour DST day still reads as a day.
package elapsed

import (
	"fmt"
	"strings"
	"time"

	"github.com/faizmokh/sejak/internal/datetime"
)

// JustNow is returned when less than a minute has passed, or the anchor lies in the future.
const JustNow = "Just now"

// maxParts caps how many units a readout shows.
const maxParts = 2

// Components is the calendar breakdown between two instants.
type Components struct {
	Months  int
	Days    int
	Hours   int
	Minutes int
}

// IsZero reports whether every component is zero.
func (c Components) IsZero() bool {
	return c.Months == 0 && c.Days == 0 && c.Hours == 0 && c.Minutes == 0
}

// Anchor picks the instant elapsed time is measured from: the stored start
// date (plus optional time) when it parses, otherwise createdAt.
func Anchor(startDate, startTime string, createdAt time.Time, loc *time.Location) time.Time {
	if strings.TrimSpace(startDate) != "" {
		if t, ok := datetime.ParseAnchor(startDate, startTime, loc); ok {
			return t
		}
	}
	return createdAt
}

// Between computes the calendar difference from anchor to now in loc.
// Anchors at or after now yield zero components.
func Between(anchor, now time.Time, loc *time.Location) Components {
	if loc == nil {
		loc = time.Local
	}
	from := anchor.In(loc)
	to := now.In(loc)
	if !to.After(from) {
		return Components{}
	}

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	for months > 0 && addMonths(from, months).After(to) {
		months--
	}
	cursor := addMonths(from, months)

	days := int(to.Sub(cursor) / (24 * time.Hour))
	for days > 0 && cursor.AddDate(0, 0, days).After(to) {
		days--
	}
	for !cursor.AddDate(0, 0, days+1).After(to) {
		days++
	}
	cursor = cursor.AddDate(0, 0, days)

	// A fall-back night makes a calendar day 25 hours long; the extra hour
	// must not show up as "24 hours".
	rest := to.Sub(cursor)
	if rest >= 24*time.Hour {
		days++
		rest -= 24 * time.Hour
	}
	return Components{
		Months:  months,
		Days:    days,
		Hours:   int(rest / time.Hour),
		Minutes: int(rest % time.Hour / time.Minute),
	}
}

// Format renders the readout for anchor as seen at now.
func Format(anchor, now time.Time, loc *time.Location) string {
	return FormatComponents(Between(anchor, now, loc))
}

// FormatComponents picks the two largest non-zero units, months first.
func FormatComponents(c Components) string {
	units := []struct {
		value            int
		singular, plural string
	}{
		{c.Months, "month", "months"},
		{c.Days, "day", "days"},
		{c.Hours, "hour", "hours"},
		{c.Minutes, "minute", "minutes"},
	}

	parts := make([]string, 0, maxParts)
	for _, u := range units {
		if len(parts) == maxParts {
			break
		}
		if u.value <= 0 {
			continue
		}
		name := u.plural
		if u.value == 1 {
			name = u.singular
		}
		parts = append(parts, fmt.Sprintf("%d %s", u.value, name))
	}

	if len(parts) == 0 {
		return JustNow
	}
	return strings.Join(parts, ", ") + " ago"
}

// addMonths steps t by n calendar months, clamping the day to the target month's length.
func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
