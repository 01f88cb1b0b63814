// Package reminder schedules recurring motivational notifications for
// important events through a notification Center.
package reminder

import (
	"context"
	"strings"
)

// IDPrefix marks every notification this package registers.
const IDPrefix = "important-"

// ID is the notification identifier used for an event.
func ID(eventID string) string {
	return IDPrefix + eventID
}

// EventID reverses ID. It reports false for identifiers not made by ID.
func EventID(id string) (string, bool) {
	if !strings.HasPrefix(id, IDPrefix) {
		return "", false
	}
	return strings.TrimPrefix(id, IDPrefix), true
}

// Request is one pending notification.
type Request struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Body    string  `json:"body"`
	Trigger Trigger `json:"trigger"`
}

// Center posts notifications. Register replaces any request with the same
// ID, and Cancel ignores unknown ones.
type Center interface {
	RequestPermission(ctx context.Context) (bool, error)
	Register(ctx context.Context, req Request) error
	Cancel(ctx context.Context, ids ...string) error
	Pending(ctx context.Context) ([]string, error)
}
