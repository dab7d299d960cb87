package main

import (
	"testing"
	"time"
)

func TestAgeOn(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		today time.Time
		want  int
	}{
		{"birthday today", day(1960, time.March, 15), day(2025, time.March, 15), 65},
		{"day before birthday", day(1960, time.March, 15), day(2025, time.March, 14), 64},
		{"later month", day(1960, time.March, 15), day(2025, time.October, 1), 65},
		{"earlier month", day(1990, time.November, 8), day(2025, time.June, 1), 34},
		{"leap day birth", day(2000, time.February, 29), day(2025, time.February, 28), 24},
		{"newborn", day(2025, time.May, 1), day(2025, time.June, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageOn(tt.birth, tt.today); got != tt.want {
				t.Errorf("ageOn() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", day(2025, time.June, 1), day(2025, time.June, 1), 0},
		{"next day", day(2025, time.June, 1), day(2025, time.June, 2), 1},
		{"backwards", day(2025, time.June, 2), day(2025, time.June, 1), -1},
		{"across leap day", day(2024, time.February, 28), day(2024, time.March, 1), 2},
		{"one year", day(2025, time.January, 1), day(2026, time.January, 1), 365},
		{"time of day ignored", time.Date(2025, time.June, 1, 23, 0, 0, 0, time.UTC), time.Date(2025, time.June, 2, 1, 0, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := daysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("daysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddYears(t *testing.T) {
	if got := addYears(day(2025, time.January, 10), 1); !got.Equal(day(2026, time.January, 10)) {
		t.Errorf("addYears() = %v", got)
	}
	if got := addYears(day(2024, time.February, 29), 1); !got.Equal(day(2025, time.March, 1)) {
		t.Errorf("leap day should roll to 1 March, got %v", got)
	}
}

func TestInSeasonalWindow(t *testing.T) {
	winter := &SeasonalWindow{Start: "09-01", End: "03-31"}
	autumn := &SeasonalWindow{Start: "09-01", End: "12-31"}

	tests := []struct {
		name   string
		window *SeasonalWindow
		today  time.Time
		want   bool
	}{
		{"no window", nil, day(2025, time.July, 15), true},
		{"winter start", winter, day(2025, time.September, 1), true},
		{"winter new year", winter, day(2026, time.January, 1), true},
		{"winter end", winter, day(2026, time.March, 31), true},
		{"winter after end", winter, day(2026, time.April, 1), false},
		{"winter summer", winter, day(2025, time.July, 15), false},
		{"autumn last day", autumn, day(2025, time.December, 31), true},
		{"autumn before", autumn, day(2025, time.August, 31), false},
		{"autumn january", autumn, day(2026, time.January, 1), false},
		{"malformed", &SeasonalWindow{Start: "9/1", End: "03-31"}, day(2025, time.July, 15), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inSeasonalWindow(tt.window, tt.today); got != tt.want {
				t.Errorf("inSeasonalWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMonthDay(t *testing.T) {
	if got, err := parseMonthDay("09-01"); err != nil || got != 901 {
		t.Errorf("parseMonthDay(09-01) = %d, %v", got, err)
	}
	for _, bad := range []string{"", "13-01", "00-10", "02-32", "0901", "ab-cd"} {
		if _, err := parseMonthDay(bad); err == nil {
			t.Errorf("parseMonthDay(%q) expected error", bad)
		}
	}
}

func TestIsAfterDay(t *testing.T) {
	morning := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.June, 1, 20, 0, 0, 0, time.UTC)
	if isAfterDay(evening, morning) {
		t.Error("same calendar day should not be after")
	}
	if !isAfterDay(day(2025, time.June, 2), evening) {
		t.Error("next day should be after")
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025-06-01", "2025-06-01T10:00:00", "2025-06-01T10:00:00Z"} {
		got, err := parseDate(s)
		if err != nil {
			t.Fatalf("parseDate(%q): %v", s, err)
		}
		if !toDate(got).Equal(day(2025, time.June, 1)) {
			t.Errorf("parseDate(%q) = %v", s, got)
		}
	}
	if _, err := parseDate("1 June 2025"); err == nil {
		t.Error("expected error for display date")
	}
}
