package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/faizmokh/sejak/internal/kv"
	"github.com/faizmokh/sejak/internal/reminder"
)

type recordingDeliverer struct {
	available bool

	mu        sync.Mutex
	delivered []string
}

func (d *recordingDeliverer) Available(context.Context) bool { return d.available }

func (d *recordingDeliverer) Deliver(_ context.Context, req reminder.Request) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, req.ID)
	return nil
}

var from = time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)

func request(id string) reminder.Request {
	return reminder.Request{
		ID:      reminder.ID(id),
		Title:   "Title " + id,
		Body:    "Keep going",
		Trigger: reminder.Daily(8, 0, from),
	}
}

func TestRegisterReplacesAndPersists(t *testing.T) {
	ctx := context.Background()
	store := kv.NewFileStore(t.TempDir())
	center := NewCenter(store, &recordingDeliverer{available: true})

	first := request("a")
	second := request("a")
	second.Body = "Another day stronger"

	for _, req := range []reminder.Request{first, second, request("b")} {
		if err := center.Register(ctx, req); err != nil {
			t.Fatalf("Register(%s): %v", req.ID, err)
		}
	}

	reopened := NewCenter(store, None{})
	pending, err := reopened.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if strings.Join(pending, ",") != "important-a,important-b" {
		t.Fatalf("pending = %v", pending)
	}

	requests, err := reopened.Requests(ctx)
	if err != nil {
		t.Fatalf("Requests: %v", err)
	}
	if requests[0].Body != "Another day stronger" {
		t.Fatalf("Register did not replace: %+v", requests[0])
	}
	if next, _ := requests[0].Trigger.Next(from); !next.Equal(time.Date(2024, time.March, 11, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("persisted trigger fires at %v", next)
	}
}

func TestCancelIgnoresUnknownIDs(t *testing.T) {
	ctx := context.Background()
	store := kv.NewFileStore(t.TempDir())
	center := NewCenter(store, None{})

	if err := center.Cancel(ctx, "important-missing"); err != nil {
		t.Fatalf("Cancel on empty registry: %v", err)
	}
	if _, err := store.Get(ctx, StorageKey); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Cancel of unknown id wrote the registry: %v", err)
	}

	_ = center.Register(ctx, request("a"))
	_ = center.Register(ctx, request("b"))
	if err := center.Cancel(ctx, "important-a", "important-missing"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	pending, _ := center.Pending(ctx)
	if len(pending) != 1 || pending[0] != "important-b" {
		t.Fatalf("pending = %v, want [important-b]", pending)
	}
}

func TestRequestPermissionFollowsDeliverer(t *testing.T) {
	ctx := context.Background()
	store := kv.NewFileStore(t.TempDir())

	granted, err := NewCenter(store, &recordingDeliverer{available: true}).RequestPermission(ctx)
	if !granted || err != nil {
		t.Fatalf("available deliverer: %v, %v", granted, err)
	}

	granted, err = NewCenter(store, None{}).RequestPermission(ctx)
	if granted || !errors.Is(err, reminder.ErrPermissionDenied) {
		t.Fatalf("none deliverer: %v, %v", granted, err)
	}
}

func TestStartSchedulesRegisteredRequests(t *testing.T) {
	ctx := context.Background()
	store := kv.NewFileStore(t.TempDir())
	writer := NewCenter(store, None{})
	_ = writer.Register(ctx, request("a"))

	center := NewCenter(store, &recordingDeliverer{available: true})
	if err := center.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer center.Stop()

	if got := len(center.Upcoming()); got != 1 {
		t.Fatalf("Upcoming has %d entries, want 1", got)
	}

	// Another process registers and cancels through its own center.
	_ = writer.Register(ctx, request("b"))
	_ = writer.Cancel(ctx, "important-a")
	if err := center.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	upcoming := center.Upcoming()
	if _, ok := upcoming["important-b"]; !ok || len(upcoming) != 1 {
		t.Fatalf("Upcoming after sync = %v, want only important-b", upcoming)
	}

	if err := center.Cancel(ctx, "important-b"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := len(center.Upcoming()); got != 0 {
		t.Fatalf("Upcoming after cancel has %d entries", got)
	}
}

func TestFireDeliversRequest(t *testing.T) {
	deliverer := &recordingDeliverer{available: true}
	center := NewCenter(kv.NewFileStore(t.TempDir()), deliverer)

	center.fire(request("a"))

	if len(deliverer.delivered) != 1 || deliverer.delivered[0] != "important-a" {
		t.Fatalf("delivered = %v", deliverer.delivered)
	}
}

func TestScheduleAdapterUsesTrigger(t *testing.T) {
	s := schedule{trigger: reminder.Every(24*time.Hour, from), log: log.New(&bytes.Buffer{}, "", 0)}
	if next := s.Next(from); !next.Equal(from.Add(24 * time.Hour)) {
		t.Fatalf("Next = %v", next)
	}

	var buf bytes.Buffer
	broken := schedule{trigger: reminder.Trigger{Rule: "FREQ=NEVER"}, log: log.New(&buf, "", 0)}
	if next := broken.Next(from); !next.IsZero() {
		t.Fatalf("broken Next = %v, want zero", next)
	}
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Fatalf("broken rule was not logged: %q", buf.String())
	}
}

func TestNewDeliverer(t *testing.T) {
	for kind, want := range map[string]string{"dbus": "*notify.DBus", "": "*notify.DBus", "log": "*notify.Log", "none": "notify.None"} {
		d, err := NewDeliverer(kind)
		if err != nil {
			t.Fatalf("NewDeliverer(%q): %v", kind, err)
		}
		if got := typeName(d); got != want {
			t.Errorf("NewDeliverer(%q) = %s, want %s", kind, got, want)
		}
	}
	if _, err := NewDeliverer("pigeon"); err == nil {
		t.Fatal("NewDeliverer accepted an unknown kind")
	}
}

func TestLogDelivererWritesLine(t *testing.T) {
	var buf bytes.Buffer
	d := NewLog(log.New(&buf, "", 0))

	if !d.Available(context.Background()) {
		t.Fatal("log deliverer should always be available")
	}
	if err := d.Deliver(context.Background(), request("a")); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if !strings.Contains(buf.String(), "important-a: Title a: Keep going") {
		t.Fatalf("log line = %q", buf.String())
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
