// Package ics exports events as an iCalendar feed.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/faizmokh/sejak/internal/event"
)

const (
	productID = "-//sejak//sejak//EN"

	// dailyRule repeats important events the way their reminders do.
	dailyRule = "FREQ=DAILY"

	importantCategory = "IMPORTANT"
)

// Export renders records as a VCALENDAR with one VEVENT each, starting at
// the record's anchor. stamp is written as DTSTAMP.
func Export(records []event.Record, stamp time.Time, loc *time.Location) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, rec := range records {
		ev := cal.AddEvent(rec.ID)
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(rec.CreatedAt)
		ev.SetStartAt(rec.Anchor(loc))
		ev.SetSummary(rec.Title)
		if rec.Details != "" {
			ev.SetDescription(rec.Details)
		}
		if rec.IsImportant {
			ev.AddProperty(ical.ComponentPropertyCategories, importantCategory)
			ev.AddProperty(ical.ComponentPropertyRrule, dailyRule)
		}
	}

	return cal.Serialize()
}
