package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/sejak/internal/event"
	"github.com/faizmokh/sejak/internal/reminder"
	"github.com/faizmokh/sejak/internal/settings"
)

// Services are the collaborators the TUI drives.
type Services struct {
	Events    *event.Store
	Settings  *settings.Store
	Reminders *reminder.Scheduler
	Location  *time.Location
	Refresh   time.Duration
	Now       func() time.Time
}

// Model owns Bubble Tea state for the main TUI experience.
type Model struct {
	ctx context.Context
	svc Services

	screen   screen
	records  []event.Record
	selected int
	now      time.Time

	form                 form
	notificationsEnabled bool

	help       help.Model
	loading    bool
	statusLine string
	errorLine  string
}

type screen uint8

const (
	screenLoading screen = iota
	screenWelcome
	screenList
	screenAdd
	screenConfirmDelete
	screenSettings
)

type settingsLoadedMsg struct {
	snapshot settings.Snapshot
	err      error
}

type recordsLoadedMsg struct {
	records []event.Record
	err     error
}

type tickMsg time.Time

type onboardingResultMsg struct {
	err error
}

type createResultMsg struct {
	record event.Record
	err    error
}

type deleteResultMsg struct {
	title string
	err   error
}

type restartResultMsg struct {
	record event.Record
	ok     bool
	err    error
}

type notificationsResultMsg struct {
	enabled bool
	change  reminder.Change
	err     error
}

// NewModel seeds a Bubble Tea model with required collaborators.
func NewModel(ctx context.Context, svc Services) Model {
	if svc.Now == nil {
		svc.Now = time.Now
	}
	if svc.Location == nil {
		svc.Location = time.Local
	}
	if svc.Refresh <= 0 {
		svc.Refresh = 30 * time.Second
	}

	return Model{
		ctx:                  ctx,
		svc:                  svc,
		screen:               screenLoading,
		now:                  svc.Now(),
		help:                 help.New(),
		loading:              true,
		notificationsEnabled: true,
		statusLine:           "Loading events...",
	}
}

// Init loads settings and events and starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSettingsCmd(), m.loadRecordsCmd(), m.tickCmd())
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		m.now = time.Time(msg)
		return m, m.tickCmd()
	case settingsLoadedMsg:
		return m.handleSettingsLoaded(msg)
	case recordsLoadedMsg:
		return m.handleRecordsLoaded(msg)
	case onboardingResultMsg:
		if msg.err != nil {
			m.errorLine = fmt.Sprintf("Could not save onboarding state: %v", msg.err)
		}
		return m, nil
	case createResultMsg:
		return m.handleCreateResult(msg)
	case deleteResultMsg:
		return m.handleDeleteResult(msg)
	case restartResultMsg:
		return m.handleRestartResult(msg)
	case notificationsResultMsg:
		return m.handleNotificationsResult(msg)
	default:
		if m.screen == screenAdd {
			return m, m.form.update(msg)
		}
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.screen {
	case screenWelcome:
		return m.handleWelcomeKey(msg)
	case screenList:
		return m.handleListKey(msg)
	case screenAdd:
		return m.handleFormKey(msg)
	case screenConfirmDelete:
		return m.handleConfirmKey(msg)
	case screenSettings:
		return m.handleSettingsKey(msg)
	default:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}
}

func (m Model) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		m.screen = screenList
		m.statusLine = ""
		return m, m.markOnboardingCmd()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, listKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, listKeys.Down):
		if m.selected < len(m.records)-1 {
			m.selected++
			m.errorLine = ""
		}
	case key.Matches(msg, listKeys.Up):
		if m.selected > 0 {
			m.selected--
			m.errorLine = ""
		}
	case key.Matches(msg, listKeys.Add):
		return m.beginAdd()
	case key.Matches(msg, listKeys.Restart):
		rec, ok := m.current()
		if !ok || m.loading {
			return m, nil
		}
		m.statusLine = fmt.Sprintf("Restarting %q...", rec.Title)
		m.errorLine = ""
		return m, m.restartCmd(rec.ID)
	case key.Matches(msg, listKeys.Delete):
		if _, ok := m.current(); !ok || m.loading {
			return m, nil
		}
		m.screen = screenConfirmDelete
		m.statusLine = ""
		m.errorLine = ""
	case key.Matches(msg, listKeys.Settings):
		m.screen = screenSettings
		m.statusLine = ""
		m.errorLine = ""
	case key.Matches(msg, listKeys.Reload):
		return m.reload()
	case key.Matches(msg, listKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) beginAdd() (tea.Model, tea.Cmd) {
	m.form = newForm()
	m.screen = screenAdd
	m.statusLine = ""
	m.errorLine = ""
	return m, m.form.setFocus(fieldTitle)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Cancel):
		m.screen = screenList
		m.statusLine = "Cancelled."
		m.errorLine = ""
		return m, nil
	case key.Matches(msg, formKeys.Save):
		return m.submitForm()
	case key.Matches(msg, formKeys.Next):
		return m, m.form.setFocus(m.form.focus + 1)
	case key.Matches(msg, formKeys.Prev):
		return m, m.form.setFocus(m.form.focus - 1)
	case key.Matches(msg, formKeys.Toggle) && m.form.focus >= fieldNow:
		m.form.toggle(m.svc.Now().In(m.svc.Location))
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch {
	case m.form.titleMissing():
		m.errorLine = "Title cannot be empty."
		return m, nil
	case !m.form.dateValid():
		m.errorLine = "Date must be DD.MM.YYYY."
		return m, nil
	case !m.form.timeValid():
		m.errorLine = "Time must be HH:MM."
		return m, nil
	}

	draft := m.form.draft()
	m.screen = screenList
	m.statusLine = "Saving event..."
	m.errorLine = ""
	return m, m.createCmd(draft)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		rec, ok := m.current()
		m.screen = screenList
		if !ok {
			m.statusLine = "No event selected."
			return m, nil
		}
		m.statusLine = fmt.Sprintf("Deleting %q...", rec.Title)
		return m, m.deleteCmd(rec)
	case "n", "N", "esc", "q":
		m.screen = screenList
		m.statusLine = "Delete cancelled."
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, settingsKeys.Toggle):
		target := !m.notificationsEnabled
		m.statusLine = "Saving..."
		m.errorLine = ""
		return m, m.setNotificationsCmd(target)
	case key.Matches(msg, settingsKeys.Back):
		m.screen = screenList
		m.statusLine = ""
	}
	return m, nil
}

func (m Model) handleSettingsLoaded(msg settingsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Failed to load settings: %v", msg.err)
		m.screen = screenList
		return m, nil
	}
	m.notificationsEnabled = msg.snapshot.NotificationsEnabled
	if m.screen == screenLoading {
		m.screen = screenList
		if !msg.snapshot.OnboardingShown {
			m.screen = screenWelcome
		}
	}
	return m, nil
}

func (m Model) handleRecordsLoaded(msg recordsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.now = m.svc.Now()
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Failed to load events: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.records = msg.records
	if m.selected >= len(m.records) {
		m.selected = len(m.records) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.statusLine == "Loading events..." || m.statusLine == "Refreshing..." {
		m.statusLine = fmt.Sprintf("Loaded %d event%s.", len(m.records), plural(len(m.records)))
	}
	return m, nil
}

func (m Model) handleCreateResult(msg createResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Add failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Added %q.", msg.record.Title)
	m.selected = 0
	m.loading = true
	return m, m.loadRecordsCmd()
}

func (m Model) handleDeleteResult(msg deleteResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Delete failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Deleted %q.", msg.title)
	m.loading = true
	return m, m.loadRecordsCmd()
}

func (m Model) handleRestartResult(msg restartResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Restart failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}
	if !msg.ok {
		m.statusLine = "Event no longer exists."
	} else {
		m.statusLine = fmt.Sprintf("Restarted %q.", msg.record.Title)
	}
	m.errorLine = ""
	m.loading = true
	return m, m.loadRecordsCmd()
}

func (m Model) handleNotificationsResult(msg notificationsResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Could not change notifications: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}
	m.notificationsEnabled = msg.enabled
	m.errorLine = ""
	switch {
	case !msg.enabled:
		m.statusLine = fmt.Sprintf("Notifications off, cancelled %d reminder%s.", msg.change.Cancelled, plural(msg.change.Cancelled))
	case msg.change.Scheduled > 0:
		m.statusLine = fmt.Sprintf("Notifications on, scheduled %d reminder%s.", msg.change.Scheduled, plural(msg.change.Scheduled))
	default:
		m.statusLine = "Notifications on."
	}
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.statusLine = "Refreshing..."
	m.errorLine = ""
	return m, m.loadRecordsCmd()
}

func (m Model) current() (event.Record, bool) {
	if m.selected < 0 || m.selected >= len(m.records) {
		return event.Record{}, false
	}
	return m.records[m.selected], true
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.svc.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadSettingsCmd() tea.Cmd {
	prefs := m.svc.Settings
	ctx := m.ctx
	return func() tea.Msg {
		snap, err := prefs.Load(ctx)
		return settingsLoadedMsg{snapshot: snap, err: err}
	}
}

func (m Model) loadRecordsCmd() tea.Cmd {
	events := m.svc.Events
	ctx := m.ctx
	return func() tea.Msg {
		records, err := events.List(ctx)
		return recordsLoadedMsg{records: records, err: err}
	}
}

func (m Model) markOnboardingCmd() tea.Cmd {
	prefs := m.svc.Settings
	ctx := m.ctx
	return func() tea.Msg {
		return onboardingResultMsg{err: prefs.MarkOnboardingShown(ctx)}
	}
}

func (m Model) createCmd(draft event.Draft) tea.Cmd {
	events := m.svc.Events
	ctx := m.ctx
	return func() tea.Msg {
		rec, err := events.Create(ctx, draft)
		return createResultMsg{record: rec, err: err}
	}
}

func (m Model) deleteCmd(rec event.Record) tea.Cmd {
	events := m.svc.Events
	ctx := m.ctx
	return func() tea.Msg {
		return deleteResultMsg{title: rec.Title, err: events.Delete(ctx, rec.ID)}
	}
}

func (m Model) restartCmd(id string) tea.Cmd {
	events := m.svc.Events
	ctx := m.ctx
	return func() tea.Msg {
		rec, ok, err := events.Restart(ctx, id)
		return restartResultMsg{record: rec, ok: ok, err: err}
	}
}

func (m Model) setNotificationsCmd(enabled bool) tea.Cmd {
	events := m.svc.Events
	scheduler := m.svc.Reminders
	ctx := m.ctx
	return func() tea.Msg {
		records, err := events.List(ctx)
		if err != nil {
			return notificationsResultMsg{enabled: !enabled, err: err}
		}
		change, err := scheduler.SetEnabled(ctx, enabled, records)
		return notificationsResultMsg{enabled: enabled, change: change, err: err}
	}
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
