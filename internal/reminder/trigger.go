package reminder

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/faizmokh/sejak/internal/datetime"
)

// Kind tells the two trigger shapes apart.
type Kind string

const (
	// KindDaily fires every day at a fixed wall-clock time.
	KindDaily Kind = "daily"
	// KindInterval fires repeatedly at a fixed duration after it was set up.
	KindInterval Kind = "interval"
)

// DefaultInterval is used for events without a usable time of day.
const DefaultInterval = 24 * time.Hour

// Trigger describes when a reminder repeats, as an RRULE anchored at Start.
type Trigger struct {
	Kind     Kind          `json:"kind"`
	Rule     string        `json:"rule"`
	Start    time.Time     `json:"start"`
	Zone     string        `json:"zone,omitempty"`
	Hour     int           `json:"hour,omitempty"`
	Minute   int           `json:"minute,omitempty"`
	Interval time.Duration `json:"interval,omitempty"`
}

// Daily fires at hour:minute in from's location, starting after from.
func Daily(hour, minute int, from time.Time) Trigger {
	return Trigger{
		Kind:   KindDaily,
		Rule:   fmt.Sprintf("FREQ=DAILY;BYHOUR=%d;BYMINUTE=%d;BYSECOND=0", hour, minute),
		Start:  from,
		Zone:   from.Location().String(),
		Hour:   hour,
		Minute: minute,
	}
}

// Every fires each d after from, at minute resolution.
func Every(d time.Duration, from time.Time) Trigger {
	d = d.Truncate(time.Minute)
	if d < time.Minute {
		d = time.Minute
	}

	rule := fmt.Sprintf("FREQ=MINUTELY;INTERVAL=%d", int(d/time.Minute))
	if d%time.Hour == 0 {
		rule = fmt.Sprintf("FREQ=HOURLY;INTERVAL=%d", int(d/time.Hour))
	}
	return Trigger{
		Kind:     KindInterval,
		Rule:     rule,
		Start:    from,
		Zone:     from.Location().String(),
		Interval: d,
	}
}

// TriggerFor picks the trigger for an event's stored time of day: daily at
// that time when it parses, otherwise every DefaultInterval from now.
func TriggerFor(startTime string, now time.Time) Trigger {
	if hour, minute, ok := datetime.ParseClock(startTime); ok {
		return Daily(hour, minute, now)
	}
	return Every(DefaultInterval, now)
}

// Next returns the first firing strictly after after. The zero time means
// the trigger never fires again.
func (t Trigger) Next(after time.Time) (time.Time, error) {
	r, err := rrule.StrToRRule(t.Rule)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse trigger rule %q: %w", t.Rule, err)
	}
	r.DTStart(t.start())
	return r.After(after, false), nil
}

// start puts Start back into its named zone; JSON only keeps the offset.
func (t Trigger) start() time.Time {
	if t.Zone == "" {
		return t.Start
	}
	loc, err := time.LoadLocation(t.Zone)
	if err != nil {
		return t.Start
	}
	return t.Start.In(loc)
}

func (t Trigger) String() string {
	switch t.Kind {
	case KindDaily:
		return fmt.Sprintf("daily at %02d:%02d", t.Hour, t.Minute)
	case KindInterval:
		return fmt.Sprintf("every %s", t.Interval)
	default:
		return t.Rule
	}
}
