package notify

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/faizmokh/sejak/internal/logging"
	"github.com/faizmokh/sejak/internal/reminder"
)

const (
	notifyObj    = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"
	serverInfo   = "org.freedesktop.Notifications.GetServerInformation"

	appName = "sejak"
)

// DBus posts reminders through the freedesktop notification service on the
// session bus. A reminder that fires again replaces its previous bubble.
type DBus struct {
	log *log.Logger

	mu     sync.Mutex
	bus    *dbus.Conn
	shown  map[string]uint32
	expire int32
}

// NewDBus connects lazily on first use.
func NewDBus() *DBus {
	return &DBus{
		log:    logging.Get(logging.Notify),
		shown:  make(map[string]uint32),
		expire: -1,
	}
}

func (d *DBus) conn() (*dbus.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.bus != nil && d.bus.Connected() {
		return d.bus, nil
	}
	bus, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	d.bus = bus
	return bus, nil
}

// Available asks the notification service to identify itself.
func (d *DBus) Available(ctx context.Context) bool {
	bus, err := d.conn()
	if err != nil {
		d.log.Printf("[DEBUG] %s\n", err.Error())
		return false
	}
	call := bus.Object(notifyObj, notifyPath).CallWithContext(ctx, serverInfo, 0)
	if call.Err != nil {
		d.log.Printf("[DEBUG] Notification service unavailable: %s\n", call.Err.Error())
		return false
	}
	return true
}

func (d *DBus) Deliver(ctx context.Context, req reminder.Request) error {
	bus, err := d.conn()
	if err != nil {
		return err
	}

	d.mu.Lock()
	replaces := d.shown[req.ID]
	d.mu.Unlock()

	var (
		obj  = bus.Object(notifyObj, notifyPath)
		nid  uint32
		call = obj.CallWithContext(
			ctx,
			notifyMethod,
			0,
			appName,
			replaces,
			"",
			req.Title,
			req.Body,
			[]string{},
			map[string]dbus.Variant{},
			d.expire,
		)
	)
	if call.Err != nil {
		d.log.Printf("[ERROR] Cannot send notification %q: %s\n", req.Title, call.Err.Error())
		return call.Err
	}
	if err := call.Store(&nid); err != nil {
		return fmt.Errorf("read notification id: %w", err)
	}

	d.mu.Lock()
	d.shown[req.ID] = nid
	d.mu.Unlock()
	return nil
}
