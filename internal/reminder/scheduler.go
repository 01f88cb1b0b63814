package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/faizmokh/sejak/internal/config"
	"github.com/faizmokh/sejak/internal/event"
	"github.com/faizmokh/sejak/internal/logging"
	"github.com/faizmokh/sejak/internal/settings"
)

// Chooser returns an index in [0, n).
type Chooser func(n int) int

// Scheduler keeps one recurring reminder per important event.
type Scheduler struct {
	center   Center
	settings *settings.Store
	choose   Chooser
	messages []string
	now      func() time.Time
	loc      *time.Location
	log      *log.Logger
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithChooser replaces the random message picker.
func WithChooser(choose Chooser) Option {
	return func(s *Scheduler) { s.choose = choose }
}

// WithMessages replaces the notification bodies.
func WithMessages(messages []string) Option {
	return func(s *Scheduler) {
		if len(messages) > 0 {
			s.messages = append([]string(nil), messages...)
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLocation sets the zone daily triggers are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewScheduler wires a scheduler to a notification center and the settings it obeys.
func NewScheduler(center Center, prefs *settings.Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		center:   center,
		settings: prefs,
		choose:   rand.New(rand.NewSource(time.Now().UnixNano())).Intn,
		messages: append([]string(nil), config.DefaultMessages...),
		now:      time.Now,
		loc:      time.Local,
		log:      logging.Get(logging.Reminder),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule sets up the recurring reminder for rec, replacing any earlier
// one. It does nothing when notifications are turned off or the center
// refuses permission.
func (s *Scheduler) Schedule(ctx context.Context, rec event.Record) error {
	enabled, err := s.settings.NotificationsEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		s.log.Printf("[DEBUG] Notifications disabled, not scheduling %s\n", rec.ID)
		return nil
	}

	granted, err := s.center.RequestPermission(ctx)
	if err != nil && !errors.Is(err, ErrPermissionDenied) {
		return fmt.Errorf("request notification permission: %w", err)
	}
	if !granted || err != nil {
		s.log.Printf("[DEBUG] Notification permission denied, not scheduling %s\n", rec.ID)
		return nil
	}

	req := Request{
		ID:      ID(rec.ID),
		Title:   rec.Title,
		Body:    s.message(),
		Trigger: TriggerFor(rec.StartTime, s.now().In(s.loc)),
	}
	if err := s.center.Cancel(ctx, req.ID); err != nil {
		return fmt.Errorf("cancel %s: %w", req.ID, err)
	}
	if err := s.center.Register(ctx, req); err != nil {
		return fmt.Errorf("register %s: %w", req.ID, err)
	}

	s.log.Printf("[INFO] Scheduled %s %s\n", req.ID, req.Trigger)
	return nil
}

// ScheduleAll schedules every important record, as after notifications are
// turned back on. It stops at the first failure.
func (s *Scheduler) ScheduleAll(ctx context.Context, records []event.Record) (int, error) {
	n := 0
	for _, rec := range records {
		if !rec.IsImportant {
			continue
		}
		if err := s.Schedule(ctx, rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Cancel removes the reminder for an event, if any.
func (s *Scheduler) Cancel(ctx context.Context, eventID string) error {
	if err := s.center.Cancel(ctx, ID(eventID)); err != nil {
		return fmt.Errorf("cancel %s: %w", ID(eventID), err)
	}
	return nil
}

// CancelAll removes every pending reminder this package registered and
// reports how many there were.
func (s *Scheduler) CancelAll(ctx context.Context) (int, error) {
	pending, err := s.center.Pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending reminders: %w", err)
	}

	var ids []string
	for _, id := range pending {
		if _, ok := EventID(id); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.center.Cancel(ctx, ids...); err != nil {
		return 0, fmt.Errorf("cancel reminders: %w", err)
	}

	s.log.Printf("[INFO] Cancelled %d reminders\n", len(ids))
	return len(ids), nil
}

// Change reports what SetEnabled did to pending reminders.
type Change struct {
	Cancelled int
	Scheduled int
}

// SetEnabled persists the notifications toggle. Turning it off withdraws
// every pending reminder; turning it back on schedules the important
// records among records.
func (s *Scheduler) SetEnabled(ctx context.Context, enabled bool, records []event.Record) (Change, error) {
	was, err := s.settings.NotificationsEnabled(ctx)
	if err != nil {
		return Change{}, err
	}
	disabled, err := s.settings.SetNotificationsEnabled(ctx, enabled)
	if err != nil {
		return Change{}, err
	}

	switch {
	case disabled:
		n, err := s.CancelAll(ctx)
		return Change{Cancelled: n}, err
	case enabled && !was:
		n, err := s.ScheduleAll(ctx, records)
		return Change{Scheduled: n}, err
	default:
		return Change{}, nil
	}
}

func (s *Scheduler) message() string {
	if len(s.messages) == 0 {
		return config.DefaultMessages[0]
	}
	i := s.choose(len(s.messages))
	if i < 0 || i >= len(s.messages) {
		i = 0
	}
	return s.messages[i]
}
