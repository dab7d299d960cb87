package main

import (
	"time"
)

type HistoryStatus string

const (
	HistoryNeverHad HistoryStatus = "never-had"
	HistoryOptedOut HistoryStatus = "opted-out"
	HistoryBooked   HistoryStatus = "booked"
	HistoryComplete HistoryStatus = "complete"
	HistoryPartial  HistoryStatus = "partial"
	HistoryOverdue  HistoryStatus = "overdue"
	HistoryUpcoming HistoryStatus = "upcoming"
)

type HistoryInfo struct {
	Status        HistoryStatus
	LastDate      *Date
	NextDueDate   *Date
	OverdueDays   int
	Doses         int
	RequiredDoses int
}

func checkHistory(person *Person, prog *Programme, today time.Time) HistoryInfo {
	entry, ok := person.Entry(prog.Id)

	// No history at all - never had it
	if !ok {
		return HistoryInfo{Status: HistoryNeverHad}
	}

	// Opted out overrides everything else
	if entry.OptedOut {
		return HistoryInfo{Status: HistoryOptedOut}
	}

	// Has an entry but no date - treat as never had
	if entry.LastDate == nil || entry.LastDate.IsZero() {
		return HistoryInfo{Status: HistoryNeverHad}
	}

	lastDate := *entry.LastDate

	// Future date is a booked appointment, regardless of schedule type
	if isAfterDay(lastDate.Time, today) {
		return HistoryInfo{Status: HistoryBooked, LastDate: &lastDate}
	}

	schedule := prog.Schedule
	if schedule == nil {
		return HistoryInfo{Status: HistoryComplete, LastDate: &lastDate}
	}

	switch schedule.Type {
	case ScheduleOneOff:
		return HistoryInfo{Status: HistoryComplete, LastDate: &lastDate}

	case ScheduleMultiDose:
		if schedule.Doses <= 0 {
			break
		}

		// Entries written before dose counting count as one dose
		given := entry.Doses
		if given <= 0 {
			given = 1
		}
		info := HistoryInfo{
			Status:        HistoryComplete,
			LastDate:      &lastDate,
			Doses:         given,
			RequiredDoses: schedule.Doses,
		}
		if given < schedule.Doses {
			info.Status = HistoryPartial
		}
		return info

	case ScheduleRecurring:
		if schedule.IntervalYears <= 0 {
			break
		}

		nextDue := Date{addYears(lastDate.Time, schedule.IntervalYears)}
		info := HistoryInfo{
			Status:      HistoryUpcoming,
			LastDate:    &lastDate,
			NextDueDate: &nextDue,
		}
		if !nextDue.After(toDate(today)) {
			info.Status = HistoryOverdue
			info.OverdueDays = daysBetween(nextDue.Time, today)
		}
		return info
	}

	// Malformed schedule
	return HistoryInfo{Status: HistoryComplete, LastDate: &lastDate}
}
