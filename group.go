package main

import (
	"cmp"
	"slices"
	"time"
)

// Grouped is a person's results split into the sections shown on the page.
type Grouped struct {
	ActionNeeded []Result `json:"actionNeeded"`
	InProgress   []Result `json:"inProgress"`
	Booked       []Result `json:"booked"`
	Upcoming     []Result `json:"upcoming"`
	Unknown      []Result `json:"unknown"`
	UpToDate     []Result `json:"upToDate"`
	OptedOut     []Result `json:"optedOut"`
	Missed       []Result `json:"missed"`
}

func groupResults(results []Result) Grouped {
	g := Grouped{
		ActionNeeded: []Result{},
		InProgress:   []Result{},
		Booked:       []Result{},
		Upcoming:     []Result{},
		Unknown:      []Result{},
		UpToDate:     []Result{},
		OptedOut:     []Result{},
		Missed:       []Result{},
	}

	for _, r := range results {
		switch r.DisplayStatus {
		case StatusActionNeeded, StatusOverdue:
			g.ActionNeeded = append(g.ActionNeeded, r)
		case StatusInProgress:
			g.InProgress = append(g.InProgress, r)
		case StatusBooked:
			g.Booked = append(g.Booked, r)
		case StatusUpcoming:
			g.Upcoming = append(g.Upcoming, r)
		case StatusUnknown:
			g.Unknown = append(g.Unknown, r)
		case StatusUpToDate:
			g.UpToDate = append(g.UpToDate, r)
		case StatusOptedOut:
			g.OptedOut = append(g.OptedOut, r)
		case StatusExpired:
			g.Missed = append(g.Missed, r)
		}
	}

	// Longest overdue first
	slices.SortStableFunc(g.ActionNeeded, func(a, b Result) int {
		return cmp.Compare(b.OverdueDays, a.OverdueDays)
	})

	// Soonest appointment first
	sortEvents(g.Booked, resultDate, true)

	return g
}

// All returns every grouped result in page order.
func (g *Grouped) All() []Result {
	var all []Result
	for _, section := range [][]Result{g.ActionNeeded, g.InProgress, g.Booked, g.Upcoming, g.Unknown, g.UpToDate, g.OptedOut, g.Missed} {
		all = append(all, section...)
	}
	return all
}

func resultDate(r Result) time.Time {
	if r.LastDate == nil {
		return time.Time{}
	}
	return r.LastDate.Time
}
