package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/faizmokh/sejak/internal/config"
	"github.com/faizmokh/sejak/internal/event"
	"github.com/faizmokh/sejak/internal/files"
	"github.com/faizmokh/sejak/internal/kv"
	"github.com/faizmokh/sejak/internal/logging"
	"github.com/faizmokh/sejak/internal/notify"
	"github.com/faizmokh/sejak/internal/reminder"
	"github.com/faizmokh/sejak/internal/settings"
)

// App carries the services every command works with. They are opened on
// first use so that flags such as --config are parsed beforehand.
type App struct {
	manager    *files.Manager
	configPath string
	now        func() time.Time

	opened    bool
	cfg       *config.Config
	loc       *time.Location
	store     kv.Store
	settings  *settings.Store
	center    *notify.Center
	reminders *reminder.Scheduler
	events    *event.Store
	logFile   *os.File
	log       *log.Logger
}

// NewApp prepares an App rooted at the manager's base path.
func NewApp(manager *files.Manager) *App {
	return &App{manager: manager, now: time.Now}
}

// Open loads configuration and wires storage, logging and reminders. It is
// safe to call more than once.
func (a *App) Open() error {
	if a.opened {
		return nil
	}
	if _, err := a.manager.EnsureDir(); err != nil {
		return err
	}

	path, err := a.resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logFile, err := a.manager.OpenLog()
	if err != nil {
		return err
	}
	if err := logging.Setup(logFile, cfg.LogLevel); err != nil {
		logFile.Close()
		return err
	}

	store, err := kv.Open(cfg.Storage, a.manager)
	if err != nil {
		logFile.Close()
		return fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}

	deliverer, err := notify.NewDeliverer(cfg.Notifier)
	if err != nil {
		store.Close()
		logFile.Close()
		return err
	}

	a.cfg = cfg
	a.loc = loc
	a.store = store
	a.logFile = logFile
	a.log = logging.Get(logging.CLI)
	a.settings = settings.NewStore(store)
	a.center = notify.NewCenter(store, deliverer)
	a.reminders = reminder.NewScheduler(a.center, a.settings,
		reminder.WithMessages(cfg.Messages),
		reminder.WithLocation(loc),
		reminder.WithClock(a.now),
	)
	a.events = event.NewStore(store,
		event.WithClock(a.now),
		event.WithLocation(loc),
		event.WithReminders(a.reminders),
	)
	a.opened = true

	a.log.Printf("[DEBUG] Opened %s (storage %s, notifier %s)\n", a.manager.BasePath(), cfg.Storage, cfg.Notifier)
	return nil
}

// resolveConfigPath prefers --config, then $SEJAK_CONFIG, then the base directory.
func (a *App) resolveConfigPath() (string, error) {
	if a.configPath != "" {
		return files.ExpandPath(a.configPath)
	}
	path, err := files.ResolveConfigPath()
	if err != nil || path != "" {
		return path, err
	}
	return a.manager.ConfigPath(), nil
}

// Close releases storage and the log file.
func (a *App) Close() error {
	if !a.opened {
		return nil
	}
	a.opened = false

	var errs []error
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := logging.Setup(io.Discard, ""); err != nil {
		errs = append(errs, err)
	}
	if err := a.logFile.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location is the zone elapsed times are computed in.
func (a *App) Location() *time.Location { return a.loc }

// Config is the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Events is the event store.
func (a *App) Events() *event.Store { return a.events }

// Settings is the settings store.
func (a *App) Settings() *settings.Store { return a.settings }

// Reminders is the reminder scheduler.
func (a *App) Reminders() *reminder.Scheduler { return a.reminders }

// Center is the local notification center.
func (a *App) Center() *notify.Center { return a.center }

// Now is the app clock.
func (a *App) Now() time.Time { return a.now() }
