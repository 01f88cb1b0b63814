// Package event owns the persisted collection of "time since" records.
package event

import (
	"time"

	"github.com/faizmokh/sejak/internal/elapsed"
)

// StorageKey is the key/value entry holding the whole collection.
const StorageKey = "Events"

// Record is one tracked event. The JSON names match the stored layout, where
// the start date lives under "startTime" and the time of day under "endTime".
type Record struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Details            string    `json:"details"`
	CreatedAt          time.Time `json:"createdAt"`
	StartDate          string    `json:"startTime,omitempty"`
	StartTime          string    `json:"endTime,omitempty"`
	UseCurrentDateTime bool      `json:"useCurrentDateTime"`
	IsImportant        bool      `json:"isImportantEvent"`
}

// Draft carries the user's input for a new record.
type Draft struct {
	Title              string
	Details            string
	StartDate          string
	StartTime          string
	UseCurrentDateTime bool
	IsImportant        bool
}

// Anchor is the instant elapsed time is measured from.
func (r Record) Anchor(loc *time.Location) time.Time {
	return elapsed.Anchor(r.StartDate, r.StartTime, r.CreatedAt, loc)
}

// Since renders the "time since" readout for r as seen at now.
func (r Record) Since(now time.Time, loc *time.Location) string {
	return elapsed.Format(r.Anchor(loc), now, loc)
}
