package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	json "github.com/goccy/go-json"
)

// Keys a programme can override in its messages table.
const (
	MessageCheckEligibility = "checkEligibility"
	MessageComplete         = "complete"
	MessageOverdue          = "overdue"
	MessageUpcoming         = "upcoming"
	MessageInProgress       = "inProgress"
)

// Message is either literal text or a template over one pre-formatted value
// (a relative date, a duration or a dose count).
type Message struct {
	literal  string
	source   string
	template func(arg string) string
}

func Literal(text string) Message {
	return Message{literal: text}
}

func Template(fn func(arg string) string) Message {
	return Message{template: fn}
}

func (m Message) IsTemplate() bool {
	return m.template != nil
}

func (m Message) Render(arg string) string {
	if m.template != nil {
		return m.template(arg)
	}
	return m.literal
}

// UnmarshalJSON reads a catalogue string. Strings containing template
// actions are compiled with text/template and receive the value as {{.}}.
func (m *Message) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("message must be a string: %w", err)
	}

	if !strings.Contains(text, "{{") {
		*m = Literal(text)
		return nil
	}

	tmpl, err := template.New("message").Parse(text)
	if err != nil {
		return fmt.Errorf("invalid message template %q: %w", text, err)
	}
	*m = Template(func(arg string) string {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, arg); err != nil {
			return text
		}
		return buf.String()
	})
	m.source = text
	return nil
}

// MarshalJSON writes literals and catalogue templates back as strings.
// Templates built from Go functions have no source and marshal as null.
func (m Message) MarshalJSON() ([]byte, error) {
	switch {
	case !m.IsTemplate():
		return json.Marshal(m.literal)
	case m.source != "":
		return json.Marshal(m.source)
	}
	return []byte("null"), nil
}

type Messages map[string]Message

func (ms Messages) lookup(key string) (Message, bool) {
	m, ok := ms[key]
	return m, ok
}

func formatOverdueDuration(days int) string {
	if days < 30 {
		return fmt.Sprintf("%d days", days)
	}
	if days < 365 {
		months := days / 30
		if months == 1 {
			return "1 month"
		}
		return fmt.Sprintf("%d months", months)
	}
	years := days / 365
	if years == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", years)
}

// formatRelativeDate describes date relative to today, e.g. "yesterday",
// "3 weeks ago", "in 2 months". Dates a year or more away fall back to
// "March 2027".
func formatRelativeDate(date, today time.Time) string {
	diffDays := daysBetween(today, date)

	// Past dates
	if diffDays < 0 {
		absDays := -diffDays
		switch {
		case absDays == 1:
			return "yesterday"
		case absDays < 7:
			return fmt.Sprintf("%d days ago", absDays)
		case absDays < 30:
			if weeks := absDays / 7; weeks > 1 {
				return fmt.Sprintf("%d weeks ago", weeks)
			}
			return "last week"
		case absDays < 365:
			if months := absDays / 30; months > 1 {
				return fmt.Sprintf("%d months ago", months)
			}
			return "last month"
		}
		return date.Format("January 2006")
	}

	// Future dates
	switch {
	case diffDays == 0:
		return "today"
	case diffDays == 1:
		return "tomorrow"
	case diffDays < 7:
		return fmt.Sprintf("in %d days", diffDays)
	case diffDays < 30:
		if weeks := diffDays / 7; weeks > 1 {
			return fmt.Sprintf("in %d weeks", weeks)
		}
		return "in 1 week"
	case diffDays < 365:
		if months := diffDays / 30; months > 1 {
			return fmt.Sprintf("in %d months", months)
		}
		return "in 1 month"
	}
	return date.Format("January 2006")
}

func formatBookedDate(date time.Time) string {
	return date.Format("Monday 2 January 2006")
}

// formatSeasonalEnd gives the closing date of the window that contains
// today, including the year the window ends in.
func formatSeasonalEnd(w *SeasonalWindow, today time.Time) string {
	end, err := parseMonthDay(w.End)
	if err != nil {
		return w.End
	}

	year := today.Year()
	if w.crossesYear() {
		start, _ := parseMonthDay(w.Start)
		if int(today.Month()) >= start/100 {
			year++
		}
	}

	return time.Date(year, time.Month(end/100), end%100, 0, 0, 0, 0, time.UTC).Format("2 January 2006")
}

func formatDoses(given, required int) string {
	return fmt.Sprintf("%d of %d doses", given, required)
}

// statusText builds the line shown under a programme for its display status.
// Programme messages override the defaults where present.
func statusText(prog *Programme, status DisplayStatus, info HistoryInfo, today time.Time) string {
	switch status {
	case StatusOverdue:
		if info.Status == HistoryOverdue && info.OverdueDays > 0 {
			return overdueText(prog, info.OverdueDays)
		}
		if prog.Type == TypeScreening {
			return "You have not had this check before"
		}
		return prog.Description

	case StatusActionNeeded:
		if prog.SeasonalWindow != nil {
			return "Available until " + formatSeasonalEnd(prog.SeasonalWindow, today)
		}
		if info.Status == HistoryOverdue {
			return overdueText(prog, info.OverdueDays)
		}
		if info.Status == HistoryNeverHad && prog.Type == TypeScreening {
			return "You have not had this check before"
		}
		return prog.Description

	case StatusInProgress:
		doses := formatDoses(info.Doses, info.RequiredDoses)
		if m, ok := prog.Messages.lookup(MessageInProgress); ok {
			return m.Render(doses)
		}
		return doses + " given"

	case StatusBooked:
		return formatBookedDate(info.LastDate.Time)

	case StatusUpcoming:
		when := formatRelativeDate(info.NextDueDate.Time, today)
		if m, ok := prog.Messages.lookup(MessageUpcoming); ok {
			return m.Render(when)
		}
		return "Next due " + when

	case StatusUnknown:
		if m, ok := prog.Messages.lookup(MessageCheckEligibility); ok {
			return m.Render("")
		}
		return "This may be available to you."

	case StatusUpToDate:
		var when string
		if info.LastDate != nil {
			when = formatRelativeDate(info.LastDate.Time, today)
		}
		if m, ok := prog.Messages.lookup(MessageComplete); ok {
			return m.Render(when)
		}
		if when != "" {
			return "You had this " + when
		}
		return "Up to date"

	case StatusExpired:
		return fmt.Sprintf("Was due %s ago - no longer showing to user", formatOverdueDuration(info.OverdueDays))

	case StatusOptedOut:
		return "You opted out of this"
	}

	return ""
}

func overdueText(prog *Programme, days int) string {
	duration := formatOverdueDuration(days)
	if m, ok := prog.Messages.lookup(MessageOverdue); ok {
		return m.Render(duration)
	}
	return "Due " + duration + " ago"
}
