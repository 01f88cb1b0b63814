package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/sejak/internal/datetime"
	"github.com/faizmokh/sejak/internal/event"
)

type field int

const (
	fieldTitle field = iota
	fieldDetails
	fieldDate
	fieldTime
	fieldNow
	fieldImportant
	fieldCount
)

// form is the add-event screen: four text inputs followed by two toggles.
type form struct {
	inputs    [fieldNow]textinput.Model
	focus     field
	useNow    bool
	important bool
}

func newForm() form {
	var f form

	placeholders := [fieldNow]string{"What are you counting from?", "Details (optional)", "DD.MM.YYYY", "HH:MM"}
	limits := [fieldNow]int{120, 500, 10, 5}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Prompt = ""
		f.inputs[i] = in
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f *form) setFocus(next field) tea.Cmd {
	next = (next%fieldCount + fieldCount) % fieldCount
	f.focus = next
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if next < fieldNow {
		return f.inputs[next].Focus()
	}
	return nil
}

// toggle flips the focused switch. Turning "now" on fills the date and time
// with the current moment.
func (f *form) toggle(now time.Time) bool {
	switch f.focus {
	case fieldNow:
		f.useNow = !f.useNow
		if f.useNow {
			date, clock := datetime.Stamp(now)
			f.inputs[fieldDate].SetValue(date)
			f.inputs[fieldTime].SetValue(clock)
		}
		return true
	case fieldImportant:
		f.important = !f.important
		return true
	default:
		return false
	}
}

// update feeds a key to the focused input and re-applies the date and time masks.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if f.focus >= fieldNow {
		return nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	switch f.focus {
	case fieldDate:
		f.mask(fieldDate, datetime.FormatDateInput)
	case fieldTime:
		f.mask(fieldTime, datetime.FormatTimeInput)
	}
	return cmd
}

func (f *form) mask(i field, format func(string) string) {
	value := f.inputs[i].Value()
	if masked := format(value); masked != value {
		f.inputs[i].SetValue(masked)
		f.inputs[i].CursorEnd()
	}
}

func (f form) value(i field) string {
	return f.inputs[i].Value()
}

func (f form) dateValid() bool { return datetime.IsDateValid(f.value(fieldDate)) }

func (f form) timeValid() bool { return datetime.IsTimeValid(f.value(fieldTime)) }

func (f form) titleMissing() bool { return strings.TrimSpace(f.value(fieldTitle)) == "" }

// canSave gates submission on a title and valid date and time.
func (f form) canSave() bool {
	return !f.titleMissing() && f.dateValid() && f.timeValid()
}

func (f form) draft() event.Draft {
	return event.Draft{
		Title:              f.value(fieldTitle),
		Details:            f.value(fieldDetails),
		StartDate:          f.value(fieldDate),
		StartTime:          f.value(fieldTime),
		UseCurrentDateTime: f.useNow,
		IsImportant:        f.important,
	}
}
