package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	importantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	sinceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(1, 2)
)

const welcomeText = "Stay motivated to quit harmful habits by watching your streaks grow day by day."

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	switch m.screen {
	case screenLoading:
		b.WriteString(dimStyle.Render("Loading..."))
		b.WriteByte('\n')
	case screenWelcome:
		b.WriteString(m.welcomeView())
	case screenAdd:
		b.WriteString(m.formView())
	case screenSettings:
		b.WriteString(m.settingsView())
	default:
		b.WriteString(m.listView())
	}

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.statusLine))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	switch m.screen {
	case screenList:
		b.WriteString(m.help.View(listKeys))
	case screenAdd:
		b.WriteString(m.help.View(formKeys))
	case screenSettings:
		b.WriteString(m.help.View(settingsKeys))
	case screenConfirmDelete:
		b.WriteString(dimStyle.Render("y confirm • n cancel"))
	case screenWelcome:
		b.WriteString(dimStyle.Render("enter continue • q quit"))
	}
	b.WriteByte('\n')

	return b.String()
}

func (m Model) welcomeView() string {
	body := headerStyle.Render("Welcome to sejak") + "\n\n" + welcomeText + "\n\n" +
		"Add the things you are counting from and sejak shows how long it has been.\n" +
		"Mark an event important to get a daily nudge."
	return panelStyle.Render(body) + "\n"
}

func (m Model) listView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Your Events"))
	b.WriteString("\n\n")

	if m.loading && len(m.records) == 0 {
		b.WriteString(dimStyle.Render("Loading..."))
		b.WriteByte('\n')
	} else if len(m.records) == 0 {
		b.WriteString(dimStyle.Render("No events yet. Press a to add one."))
		b.WriteByte('\n')
	}

	for i, rec := range m.records {
		cursor := "  "
		title := rec.Title
		if i == m.selected {
			cursor = "> "
			title = selectedStyle.Render(title)
		}
		if rec.IsImportant {
			title = importantStyle.Render("★ ") + title
		}
		b.WriteString(cursor)
		b.WriteString(title)
		b.WriteString("  ")
		b.WriteString(sinceStyle.Render(rec.Since(m.now, m.svc.Location)))
		b.WriteByte('\n')

		if i == m.selected && rec.Details != "" {
			b.WriteString("    ")
			b.WriteString(dimStyle.Render(rec.Details))
			b.WriteByte('\n')
		}
	}

	if m.screen == screenConfirmDelete {
		if rec, ok := m.current(); ok {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fmt.Sprintf("Delete %q?", rec.Title)))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func (m Model) formView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("New Event"))
	b.WriteString("\n\n")

	labels := [fieldNow]string{"Title", "Details", "Date", "Time"}
	for i := fieldTitle; i < fieldNow; i++ {
		b.WriteString(m.focusMarker(i))
		b.WriteString(fmt.Sprintf("%-8s", labels[i]))
		b.WriteString(m.form.inputs[i].View())
		switch i {
		case fieldDate:
			b.WriteString(validity(m.form.value(fieldDate), m.form.dateValid()))
		case fieldTime:
			b.WriteString(validity(m.form.value(fieldTime), m.form.timeValid()))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.focusMarker(fieldNow))
	b.WriteString(checkbox(m.form.useNow, "Use current date and time"))
	b.WriteByte('\n')
	b.WriteString(m.focusMarker(fieldImportant))
	b.WriteString(checkbox(m.form.important, "Important (daily reminder)"))
	b.WriteByte('\n')

	b.WriteByte('\n')
	if m.form.canSave() {
		b.WriteString(okStyle.Render("enter to save"))
	} else {
		b.WriteString(dimStyle.Render("a title and a valid date and time are needed to save"))
	}
	b.WriteByte('\n')

	return b.String()
}

func (m Model) settingsView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Settings"))
	b.WriteString("\n\n")
	b.WriteString("> ")
	b.WriteString(checkbox(m.notificationsEnabled, "Notifications"))
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render("  Turning notifications off cancels every pending reminder."))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) focusMarker(f field) string {
	if m.form.focus == f {
		return selectedStyle.Render("> ")
	}
	return "  "
}

func validity(value string, valid bool) string {
	switch {
	case strings.TrimSpace(value) == "":
		return ""
	case valid:
		return " " + okStyle.Render("✓")
	default:
		return " " + errorStyle.Render("✗")
	}
}

func checkbox(on bool, label string) string {
	if on {
		return okStyle.Render("[x]") + " " + label
	}
	return "[ ] " + label
}
