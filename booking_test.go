package main

import (
	"testing"
	"time"
)

func TestLocationsFor(t *testing.T) {
	locations, err := loadLocations("")
	if err != nil {
		t.Fatalf("loadLocations: %v", err)
	}

	prog := &Programme{Id: "p", Settings: []string{"hospital", "clinic"}}
	filtered := locationsFor(prog, locations)
	if len(filtered) == 0 {
		t.Fatal("expected hospital and clinic locations")
	}
	for _, loc := range filtered {
		if loc.Type != "hospital" && loc.Type != "clinic" {
			t.Errorf("unexpected location type %s", loc.Type)
		}
	}

	none := locationsFor(&Programme{Id: "q", Settings: []string{"home"}}, locations)
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty list, got %#v", none)
	}
}

func TestAppointmentsFrom(t *testing.T) {
	// Thursday
	days := appointmentsFrom(day(2026, time.February, 12))

	want := []string{
		"Friday 13 February 2026",
		"Monday 16 February 2026",
		"Tuesday 17 February 2026",
	}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i, d := range days {
		if d.Date != want[i] {
			t.Errorf("day %d = %s, want %s", i, d.Date, want[i])
		}
		if len(d.Slots) == 0 {
			t.Errorf("day %d has no slots", i)
		}
	}
}

func TestParseBookingDate(t *testing.T) {
	today := day(2026, time.February, 12)

	tests := []struct {
		in   string
		want string
	}{
		{"Monday 16 February 2026", "2026-02-16"},
		{"2026-03-01", "2026-03-01"},
		{"  Tuesday 17 February 2026 ", "2026-02-17"},
		{"next week sometime", "2026-02-12"},
		{"", "2026-02-12"},
	}

	for _, tt := range tests {
		if got := parseBookingDate(tt.in, today).String(); got != tt.want {
			t.Errorf("parseBookingDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
