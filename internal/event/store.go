package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/faizmokh/sejak/internal/datetime"
	"github.com/faizmokh/sejak/internal/kv"
	"github.com/faizmokh/sejak/internal/logging"
)

// Reminders is notified when important records appear or disappear.
type Reminders interface {
	Schedule(ctx context.Context, rec Record) error
	Cancel(ctx context.Context, id string) error
}

// Store reads and writes the event collection as a single value.
type Store struct {
	kv        kv.Store
	now       func() time.Time
	loc       *time.Location
	newID     func() string
	reminders Reminders
	log       *log.Logger

	mu sync.Mutex
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the zone new start dates and times are written in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithReminders installs the hook that schedules and cancels reminders.
func WithReminders(r Reminders) Option {
	return func(s *Store) { s.reminders = r }
}

// NewStore creates a Store persisting into the given key/value store.
func NewStore(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:    store,
		now:   time.Now,
		loc:   time.Local,
		newID: uuid.NewString,
		log:   logging.Get(logging.Store),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates draft, appends a new record and persists the collection.
func (s *Store) Create(ctx context.Context, draft Draft) (Record, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return Record{}, ErrEmptyTitle
	}
	if err := datetime.Validate(draft.StartDate, draft.StartTime); err != nil {
		return Record{}, err
	}
	date, _ := datetime.NormalizeDate(draft.StartDate)
	clock, _ := datetime.NormalizeTime(datetime.FormatTimeInput(draft.StartTime))

	s.mu.Lock()
	records, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return Record{}, err
	}

	rec := Record{
		ID:                 s.newID(),
		Title:              title,
		Details:            strings.TrimSpace(draft.Details),
		CreatedAt:          s.now(),
		StartDate:          date,
		StartTime:          clock,
		UseCurrentDateTime: draft.UseCurrentDateTime,
		IsImportant:        draft.IsImportant,
	}
	if err := s.save(ctx, append(records, rec)); err != nil {
		s.mu.Unlock()
		return Record{}, err
	}
	s.mu.Unlock()

	s.log.Printf("[INFO] Created event %s\n", rec.ID)
	if rec.IsImportant && s.reminders != nil {
		if err := s.reminders.Schedule(ctx, rec); err != nil {
			s.log.Printf("[WARN] Cannot schedule reminder for %s: %s\n", rec.ID, err.Error())
		}
	}
	return rec, nil
}

// List returns every record, newest first. Records created at the same
// instant keep the most recently appended one first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortNewestFirst(records), nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return Record{}, err
	}
	if idx := indexOf(records, id); idx >= 0 {
		return records[idx], nil
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Resolve finds a record by 1-based position in List order, full id, or
// unique id prefix.
func (s *Store) Resolve(ctx context.Context, ref string) (Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Record{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	records, err := s.List(ctx)
	if err != nil {
		return Record{}, err
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(records) {
		return records[n-1], nil
	}
	if idx := indexOf(records, ref); idx >= 0 {
		return records[idx], nil
	}

	var match []Record
	for _, rec := range records {
		if strings.HasPrefix(rec.ID, ref) {
			match = append(match, rec)
		}
	}
	switch len(match) {
	case 0:
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return match[0], nil
	default:
		return Record{}, fmt.Errorf("%w: %q matches %d events", ErrAmbiguous, ref, len(match))
	}
}

// Delete removes the record with the given id and withdraws its reminder.
// An unknown id leaves storage untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	records, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	remaining := make([]Record, 0, len(records)-1)
	remaining = append(remaining, records[:idx]...)
	remaining = append(remaining, records[idx+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.log.Printf("[INFO] Deleted event %s\n", id)
	if s.reminders != nil {
		if err := s.reminders.Cancel(ctx, id); err != nil {
			s.log.Printf("[WARN] Cannot cancel reminder for %s: %s\n", id, err.Error())
		}
	}
	return nil
}

// Restart moves the record's start to the current date and time. It reports
// false when no record has the id.
func (s *Store) Restart(ctx context.Context, id string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return Record{}, false, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return Record{}, false, nil
	}

	updated := make([]Record, len(records))
	copy(updated, records)
	updated[idx].StartDate, updated[idx].StartTime = datetime.Stamp(s.now().In(s.loc))
	if err := s.save(ctx, updated); err != nil {
		return Record{}, false, err
	}

	s.log.Printf("[INFO] Restarted event %s\n", id)
	return updated[idx], true, nil
}

func (s *Store) load(ctx context.Context) ([]Record, error) {
	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrPersist, StorageKey, err)
	}
	return records, nil
}

func (s *Store) save(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersist, StorageKey, err)
	}
	if err := s.kv.Put(ctx, StorageKey, data); err != nil {
		s.log.Printf("[ERROR] Cannot persist events: %s\n", err.Error())
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func indexOf(records []Record, id string) int {
	for i, rec := range records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func sortNewestFirst(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[len(records)-1-i] = rec
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
