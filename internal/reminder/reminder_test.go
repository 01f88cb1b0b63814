package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/faizmokh/sejak/internal/event"
	"github.com/faizmokh/sejak/internal/kv"
	"github.com/faizmokh/sejak/internal/settings"
)

type fakeCenter struct {
	granted  bool
	denyErr  error
	requests map[string]Request
	asked    int
}

func newFakeCenter() *fakeCenter {
	return &fakeCenter{granted: true, requests: map[string]Request{}}
}

func (c *fakeCenter) RequestPermission(context.Context) (bool, error) {
	c.asked++
	return c.granted, c.denyErr
}

func (c *fakeCenter) Register(_ context.Context, req Request) error {
	c.requests[req.ID] = req
	return nil
}

func (c *fakeCenter) Cancel(_ context.Context, ids ...string) error {
	for _, id := range ids {
		delete(c.requests, id)
	}
	return nil
}

func (c *fakeCenter) Pending(context.Context) ([]string, error) {
	ids := make([]string, 0, len(c.requests))
	for id := range c.requests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

var fixedNow = time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, center Center, opts ...Option) (*Scheduler, *settings.Store) {
	t.Helper()
	prefs := settings.NewStore(kv.NewFileStore(t.TempDir()))
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
		WithChooser(func(int) int { return 1 }),
	}
	return NewScheduler(center, prefs, append(base, opts...)...), prefs
}

func TestScheduleTwiceKeepsOnePendingRequest(t *testing.T) {
	ctx := context.Background()
	center := newFakeCenter()
	sched, _ := newTestScheduler(t, center)
	rec := event.Record{ID: "abc", Title: "No sugar", StartTime: "08:30", IsImportant: true}

	for i := 0; i < 2; i++ {
		if err := sched.Schedule(ctx, rec); err != nil {
			t.Fatalf("Schedule #%d: %v", i+1, err)
		}
	}

	pending, _ := center.Pending(ctx)
	if len(pending) != 1 || pending[0] != "important-abc" {
		t.Fatalf("pending = %v, want [important-abc]", pending)
	}

	req := center.requests["important-abc"]
	if req.Title != "No sugar" {
		t.Errorf("Title = %q", req.Title)
	}
	if req.Body != "Another day stronger 💥" {
		t.Errorf("Body = %q, want the chosen phrase", req.Body)
	}
	if req.Trigger.Kind != KindDaily || req.Trigger.Hour != 8 || req.Trigger.Minute != 30 {
		t.Errorf("Trigger = %+v, want daily at 08:30", req.Trigger)
	}
}

func TestScheduleWithoutTimeUsesDailyInterval(t *testing.T) {
	ctx := context.Background()
	center := newFakeCenter()
	sched, _ := newTestScheduler(t, center)

	for _, clock := range []string{"", "25:00", "soon"} {
		rec := event.Record{ID: "x", Title: "t", StartTime: clock}
		if err := sched.Schedule(ctx, rec); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		trig := center.requests["important-x"].Trigger
		if trig.Kind != KindInterval || trig.Interval != 24*time.Hour {
			t.Fatalf("StartTime %q: trigger = %+v, want 24h interval", clock, trig)
		}
	}
}

func TestScheduleSkipsWhenDisabled(t *testing.T) {
	ctx := context.Background()
	center := newFakeCenter()
	sched, prefs := newTestScheduler(t, center)

	if _, err := prefs.SetNotificationsEnabled(ctx, false); err != nil {
		t.Fatalf("SetNotificationsEnabled: %v", err)
	}
	if err := sched.Schedule(ctx, event.Record{ID: "a", Title: "A"}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(center.requests) != 0 || center.asked != 0 {
		t.Fatalf("disabled schedule touched the center: %d requests, %d permission asks", len(center.requests), center.asked)
	}
}

func TestScheduleSkipsSilentlyWhenPermissionDenied(t *testing.T) {
	ctx := context.Background()

	refused := newFakeCenter()
	refused.granted = false
	denied := newFakeCenter()
	denied.granted = false
	denied.denyErr = ErrPermissionDenied

	for _, center := range []*fakeCenter{refused, denied} {
		sched, _ := newTestScheduler(t, center)
		if err := sched.Schedule(ctx, event.Record{ID: "a", Title: "A"}); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		if len(center.requests) != 0 {
			t.Fatalf("requests = %v, want none", center.requests)
		}
	}
}

func TestSchedulePropagatesCenterFailure(t *testing.T) {
	center := newFakeCenter()
	center.denyErr = errors.New("bus closed")
	sched, _ := newTestScheduler(t, center)

	if err := sched.Schedule(context.Background(), event.Record{ID: "a"}); err == nil {
		t.Fatal("Schedule should report a broken center")
	}
}

func TestDisablingCancelsOnlyImportantReminders(t *testing.T) {
	ctx := context.Background()
	center := newFakeCenter()
	center.requests["other-1"] = Request{ID: "other-1"}
	sched, _ := newTestScheduler(t, center)

	for _, id := range []string{"a", "b"} {
		if err := sched.Schedule(ctx, event.Record{ID: id, Title: id}); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
	}

	change, err := sched.SetEnabled(ctx, false, nil)
	if err != nil || change.Cancelled != 2 {
		t.Fatalf("SetEnabled(false) = %+v, %v; want 2 cancelled", change, err)
	}

	pending, _ := center.Pending(ctx)
	if len(pending) != 1 || pending[0] != "other-1" {
		t.Fatalf("pending = %v, want only other-1", pending)
	}
}

func TestReenablingSchedulesImportantRecords(t *testing.T) {
	ctx := context.Background()
	center := newFakeCenter()
	sched, _ := newTestScheduler(t, center)
	records := []event.Record{{ID: "a", IsImportant: true}, {ID: "b"}}

	if change, err := sched.SetEnabled(ctx, true, records); err != nil || change != (Change{}) {
		t.Fatalf("enabling while enabled = %+v, %v; want no change", change, err)
	}
	if _, err := sched.SetEnabled(ctx, false, records); err != nil {
		t.Fatalf("SetEnabled(false): %v", err)
	}
	change, err := sched.SetEnabled(ctx, true, records)
	if err != nil || change.Scheduled != 1 {
		t.Fatalf("SetEnabled(true) = %+v, %v; want 1 scheduled", change, err)
	}
	if _, ok := center.requests["important-a"]; !ok {
		t.Fatal("important record was not rescheduled")
	}
}

func TestScheduleAllOnlyImportant(t *testing.T) {
	ctx := context.Background()
	center := newFakeCenter()
	sched, _ := newTestScheduler(t, center)

	n, err := sched.ScheduleAll(ctx, []event.Record{
		{ID: "a", IsImportant: true},
		{ID: "b"},
		{ID: "c", IsImportant: true},
	})
	if err != nil || n != 2 {
		t.Fatalf("ScheduleAll = %d, %v; want 2, nil", n, err)
	}
	if _, ok := center.requests["important-b"]; ok {
		t.Fatal("unimportant record was scheduled")
	}
}

func TestCancelRemovesReminder(t *testing.T) {
	ctx := context.Background()
	center := newFakeCenter()
	sched, _ := newTestScheduler(t, center)

	_ = sched.Schedule(ctx, event.Record{ID: "a"})
	if err := sched.Cancel(ctx, "a"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := sched.Cancel(ctx, "never-scheduled"); err != nil {
		t.Fatalf("Cancel unknown: %v", err)
	}
	if len(center.requests) != 0 {
		t.Fatalf("requests = %v, want none", center.requests)
	}
}

func TestIDRoundTrip(t *testing.T) {
	if got := ID("123"); got != "important-123" {
		t.Fatalf("ID = %q", got)
	}
	if id, ok := EventID("important-123"); !ok || id != "123" {
		t.Fatalf("EventID = %q, %v", id, ok)
	}
	if _, ok := EventID("other-123"); ok {
		t.Fatal("EventID accepted a foreign identifier")
	}
}

func TestDailyTriggerNext(t *testing.T) {
	trig := Daily(8, 0, fixedNow)

	next, err := trig.Next(fixedNow)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := time.Date(2024, time.March, 11, 8, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Fatalf("Next = %v, want %v", next, want)
	}

	next, _ = trig.Next(next)
	if want := time.Date(2024, time.March, 12, 8, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Fatalf("Next after firing = %v, want %v", next, want)
	}
}

func TestDailyTriggerKeepsWallClockAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	from := time.Date(2024, time.March, 30, 12, 0, 0, 0, berlin)
	trig := Daily(8, 0, from)

	data, err := json.Marshal(trig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Trigger
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	next, err := decoded.Next(from)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := time.Date(2024, time.March, 31, 8, 0, 0, 0, berlin); !next.Equal(want) {
		t.Fatalf("Next = %v, want %v", next, want)
	}
}

func TestIntervalTriggerNext(t *testing.T) {
	trig := Every(24*time.Hour, fixedNow)
	if trig.Rule != "FREQ=HOURLY;INTERVAL=24" {
		t.Fatalf("Rule = %q", trig.Rule)
	}

	next, err := trig.Next(fixedNow)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := fixedNow.Add(24 * time.Hour); !next.Equal(want) {
		t.Fatalf("Next = %v, want %v", next, want)
	}

	if short := Every(90*time.Second, fixedNow); short.Rule != "FREQ=MINUTELY;INTERVAL=1" {
		t.Fatalf("short Rule = %q", short.Rule)
	}
}

func TestTriggerString(t *testing.T) {
	if got := Daily(7, 5, fixedNow).String(); got != "daily at 07:05" {
		t.Fatalf("String = %q", got)
	}
	if got := Every(24*time.Hour, fixedNow).String(); got != "every 24h0m0s" {
		t.Fatalf("String = %q", got)
	}
}
