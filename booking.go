package main

import (
	"strings"
	"time"
)

// Location is somewhere a programme can be booked.
type Location struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Address  string `json:"address"`
	Distance string `json:"distance"`
}

type Slot struct {
	Time string `json:"time"`
}

// AppointmentDay is one day of bookable slots. Date is the display date,
// e.g. "Monday 17 February 2026".
type AppointmentDay struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

const appointmentDays = 3

var slotTimes = [appointmentDays][]string{
	{"9:00am", "9:30am", "11:00am"},
	{"8:30am", "10:00am", "2:30pm"},
	{"9:00am", "11:30am", "3:00pm"},
}

func loadLocations(fileName string) ([]Location, error) {
	var locations []Location
	if err := loadJSON(fileName, "data/locations.json", &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// locationsFor keeps the locations whose type is one of the programme's
// settings, in fixture order.
func locationsFor(prog *Programme, locations []Location) []Location {
	filtered := []Location{}
	for _, loc := range locations {
		for _, setting := range prog.Settings {
			if loc.Type == setting {
				filtered = append(filtered, loc)
				break
			}
		}
	}
	return filtered
}

// appointmentsFrom offers slots on the next working days after today.
func appointmentsFrom(today time.Time) []AppointmentDay {
	days := make([]AppointmentDay, 0, appointmentDays)
	day := toDate(today)
	for len(days) < appointmentDays {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		var slots []Slot
		for _, t := range slotTimes[len(days)] {
			slots = append(slots, Slot{Time: t})
		}
		days = append(days, AppointmentDay{Date: formatBookedDate(day), Slots: slots})
	}
	return days
}

// parseBookingDate reads a display date such as "Monday 17 February 2026",
// or a plain date. Anything else books for today.
func parseBookingDate(s string, today time.Time) Date {
	s = strings.TrimSpace(s)
	if t, err := parseDate(s); err == nil {
		return Date{toDate(t)}
	}

	// Drop the weekday
	if _, rest, ok := strings.Cut(s, " "); ok {
		if t, err := time.Parse("2 January 2006", rest); err == nil {
			return Date{toDate(t)}
		}
	}
	return Date{toDate(today)}
}
