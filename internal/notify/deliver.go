package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/faizmokh/sejak/internal/logging"
	"github.com/faizmokh/sejak/internal/reminder"
)

// Deliverer puts a fired reminder in front of the user.
type Deliverer interface {
	// Available reports whether Deliver can currently reach the user.
	Available(ctx context.Context) bool
	Deliver(ctx context.Context, req reminder.Request) error
}

// Deliverer names accepted by NewDeliverer.
const (
	DelivererDBus = "dbus"
	DelivererLog  = "log"
	DelivererNone = "none"
)

// NewDeliverer returns the deliverer selected in the configuration.
func NewDeliverer(kind string) (Deliverer, error) {
	switch kind {
	case DelivererDBus, "":
		return NewDBus(), nil
	case DelivererLog:
		return NewLog(nil), nil
	case DelivererNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown notifier %q (expected dbus|log|none)", kind)
	}
}

// Log writes reminders to a logger instead of the desktop.
type Log struct {
	log *log.Logger
}

// NewLog delivers into l, or into the notify log when l is nil.
func NewLog(l *log.Logger) *Log {
	if l == nil {
		l = logging.Get(logging.Notify)
	}
	return &Log{log: l}
}

func (l *Log) Available(context.Context) bool { return true }

func (l *Log) Deliver(_ context.Context, req reminder.Request) error {
	l.log.Printf("[INFO] Reminder %s: %s: %s\n", req.ID, req.Title, req.Body)
	return nil
}

// None never delivers, so no reminder is ever registered.
type None struct{}

func (None) Available(context.Context) bool { return false }

func (None) Deliver(context.Context, reminder.Request) error { return nil }
