package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const hoursPerDay = 24

// SeasonalWindow is a recurring calendar range in "MM-DD" form. The range may
// cross New Year, e.g. 09-01 to 03-31.
type SeasonalWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func isAfterDay(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()

	// Use the local timezone from t1
	loc := t1.Location()

	// Compare only the year, month, and day in the local timezone
	return time.Date(y1, m1, d1, 0, 0, 0, 0, loc).After(
		time.Date(y2, m2, d2, 0, 0, 0, 0, loc),
	)
}

// toDate drops the time of day, keeping the calendar date in UTC.
func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ageOn(birthDate, today time.Time) int {
	// Get difference in years
	years := today.Year() - birthDate.Year()

	// Adjust if the birthday has not been reached yet this year
	if today.Month() < birthDate.Month() || (today.Month() == birthDate.Month() && today.Day() < birthDate.Day()) {
		years--
	}

	return years
}

// daysBetween returns the whole days from a to b, comparing dates only.
// The result is negative when b is before a.
func daysBetween(a, b time.Time) int {
	// Both ends are UTC midnights so the difference is a whole number of days
	return int(toDate(b).Sub(toDate(a)).Hours() / hoursPerDay)
}

// addYears moves a date forward by whole years. 29 February rolls over to
// 1 March in non-leap years.
func addYears(t time.Time, years int) time.Time {
	return toDate(t).AddDate(years, 0, 0)
}

// parseMonthDay converts "MM-DD" into the MMDD integer used for window
// comparisons (e.g. "09-01" -> 901).
func parseMonthDay(s string) (int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid month-day %q", s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, fmt.Errorf("invalid month in %q", s)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day in %q", s)
	}
	return month*100 + day, nil
}

func (w *SeasonalWindow) bounds() (int, int, error) {
	start, err := parseMonthDay(w.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseMonthDay(w.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// crossesYear reports whether the window wraps past 31 December.
func (w *SeasonalWindow) crossesYear() bool {
	start, end, err := w.bounds()
	return err == nil && start > end
}

// inSeasonalWindow reports whether today falls inside the window. A nil
// window always matches. An unparseable window does not restrict the
// programme; the catalogue validator reports it at startup.
func inSeasonalWindow(w *SeasonalWindow, today time.Time) bool {
	if w == nil {
		return true
	}
	start, end, err := w.bounds()
	if err != nil {
		return true
	}

	todayVal := int(today.Month())*100 + today.Day()

	// Same year: e.g. 03-01 to 06-30
	if start <= end {
		return todayVal >= start && todayVal <= end
	}

	// Crosses year boundary: e.g. 09-01 to 03-31
	return todayVal >= start || todayVal <= end
}

func sortEvents[T any](events []T, getTime func(T) time.Time, asc bool) []T {
	sort.SliceStable(events, func(i, j int) bool {
		t1 := getTime(events[i])
		t2 := getTime(events[j])
		if asc {
			return t1.Before(t2)
		} else {
			return t2.Before(t1)
		}
	})
	return events
}

func parseDate(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		dateLayout,
	}

	var t time.Time
	var err error
	for _, layout := range layouts {
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
