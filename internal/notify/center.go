// Package notify is sejak's local notification center: it keeps the pending
// reminder requests in the key/value store and fires them on a cron scheduler.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/faizmokh/sejak/internal/kv"
	"github.com/faizmokh/sejak/internal/logging"
	"github.com/faizmokh/sejak/internal/reminder"
)

// StorageKey holds the registry of pending requests.
const StorageKey = "PendingReminders"

// SyncSpec is how often a running center re-reads the registry, picking up
// changes made by other sejak processes.
const SyncSpec = "@every 1m"

type entry struct {
	id  cron.EntryID
	req reminder.Request
}

// Center implements reminder.Center.
type Center struct {
	kv        kv.Store
	deliverer Deliverer
	cron      *cron.Cron
	log       *log.Logger

	mu      sync.Mutex
	running bool
	entries map[string]entry
	syncID  cron.EntryID
}

// NewCenter returns a stopped center persisting into store.
func NewCenter(store kv.Store, deliverer Deliverer) *Center {
	return &Center{
		kv:        store,
		deliverer: deliverer,
		cron:      cron.New(),
		log:       logging.Get(logging.Notify),
		entries:   make(map[string]entry),
	}
}

// RequestPermission reports whether the deliverer can reach the user.
func (c *Center) RequestPermission(ctx context.Context) (bool, error) {
	if c.deliverer.Available(ctx) {
		return true, nil
	}
	return false, reminder.ErrPermissionDenied
}

// Register stores req, replacing any request with the same ID.
func (c *Center) Register(ctx context.Context, req reminder.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests, err := c.load(ctx)
	if err != nil {
		return err
	}
	requests[req.ID] = req
	if err := c.save(ctx, requests); err != nil {
		return err
	}
	c.reconcile(requests)
	return nil
}

// Cancel removes the requests with the given IDs. Unknown IDs are ignored and
// nothing is written when none match.
func (c *Center) Cancel(ctx context.Context, ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests, err := c.load(ctx)
	if err != nil {
		return err
	}
	removed := 0
	for _, id := range ids {
		if _, ok := requests[id]; ok {
			delete(requests, id)
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	if err := c.save(ctx, requests); err != nil {
		return err
	}
	c.reconcile(requests)
	return nil
}

// Pending lists the registered request IDs in sorted order.
func (c *Center) Pending(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(requests))
	for id := range requests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Requests returns the registered requests sorted by ID.
func (c *Center) Requests(ctx context.Context) ([]reminder.Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reminder.Request, 0, len(requests))
	for _, req := range requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Start schedules every registered request and begins firing them until
// Stop is called.
func (c *Center) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	requests, err := c.load(ctx)
	if err != nil {
		return err
	}

	syncID, err := c.cron.AddFunc(SyncSpec, func() {
		if err := c.Sync(ctx); err != nil {
			c.log.Printf("[WARN] Cannot sync reminders: %s\n", err.Error())
		}
	})
	if err != nil {
		return fmt.Errorf("schedule registry sync: %w", err)
	}
	c.syncID = syncID
	c.running = true
	c.reconcile(requests)
	c.cron.Start()

	c.log.Printf("[INFO] Notification center started with %d reminders\n", len(requests))
	return nil
}

// Stop halts firing and waits for running deliveries to finish.
func (c *Center) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.cron.Remove(c.syncID)
	for id, e := range c.entries {
		c.cron.Remove(e.id)
		delete(c.entries, id)
	}
	c.mu.Unlock()

	<-c.cron.Stop().Done()
	c.log.Println("[INFO] Notification center stopped")
}

// Sync re-reads the registry and updates the scheduled entries.
func (c *Center) Sync(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests, err := c.load(ctx)
	if err != nil {
		return err
	}
	c.reconcile(requests)
	return nil
}

// Upcoming reports when each scheduled request fires next.
func (c *Center) Upcoming() map[string]time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]time.Time, len(c.entries))
	for id, e := range c.entries {
		out[id] = c.cron.Entry(e.id).Next
	}
	return out
}

// reconcile makes the cron entries match requests. Callers hold c.mu.
func (c *Center) reconcile(requests map[string]reminder.Request) {
	if !c.running {
		return
	}

	for id, e := range c.entries {
		req, ok := requests[id]
		if ok && sameRequest(req, e.req) {
			continue
		}
		c.cron.Remove(e.id)
		delete(c.entries, id)
	}

	for id, req := range requests {
		if _, ok := c.entries[id]; ok {
			continue
		}
		req := req
		entryID := c.cron.Schedule(schedule{trigger: req.Trigger, log: c.log}, cron.FuncJob(func() {
			c.fire(req)
		}))
		c.entries[id] = entry{id: entryID, req: req}
		c.log.Printf("[DEBUG] Scheduled %s %s\n", id, req.Trigger)
	}
}

func (c *Center) fire(req reminder.Request) {
	c.log.Printf("[DEBUG] Firing %s\n", req.ID)
	if err := c.deliverer.Deliver(context.Background(), req); err != nil {
		c.log.Printf("[ERROR] Cannot deliver %s: %s\n", req.ID, err.Error())
	}
}

func (c *Center) load(ctx context.Context) (map[string]reminder.Request, error) {
	requests := make(map[string]reminder.Request)

	data, err := c.kv.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return requests, nil
		}
		return nil, fmt.Errorf("load %s: %w", StorageKey, err)
	}

	var list []reminder.Request
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StorageKey, err)
	}
	for _, req := range list {
		requests[req.ID] = req
	}
	return requests, nil
}

func (c *Center) save(ctx context.Context, requests map[string]reminder.Request) error {
	list := make([]reminder.Request, 0, len(requests))
	for _, req := range requests {
		list = append(list, req)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", StorageKey, err)
	}
	if err := c.kv.Put(ctx, StorageKey, data); err != nil {
		c.log.Printf("[ERROR] Cannot persist reminders: %s\n", err.Error())
		return fmt.Errorf("save %s: %w", StorageKey, err)
	}
	return nil
}

func sameRequest(a, b reminder.Request) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Body == b.Body &&
		a.Trigger.Rule == b.Trigger.Rule &&
		a.Trigger.Zone == b.Trigger.Zone &&
		a.Trigger.Start.Equal(b.Trigger.Start)
}

// schedule adapts a reminder trigger to cron.Schedule.
type schedule struct {
	trigger reminder.Trigger
	log     *log.Logger
}

func (s schedule) Next(after time.Time) time.Time {
	next, err := s.trigger.Next(after)
	if err != nil {
		s.log.Printf("[ERROR] %s\n", err.Error())
		return time.Time{}
	}
	return next
}
