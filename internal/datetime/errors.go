package datetime

import "errors"

// ErrInvalidDate is returned when date text is not a complete DD.MM.YYYY value within range.
var ErrInvalidDate = errors.New("invalid date (expected DD.MM.YYYY)")

// ErrInvalidTime is returned when time text is not a complete HH:MM value within range.
var ErrInvalidTime = errors.New("invalid time (expected HH:MM)")
