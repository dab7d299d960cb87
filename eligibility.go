package main

import (
	"time"
)

type DisplayStatus string

const (
	StatusActionNeeded DisplayStatus = "action-needed"
	StatusOverdue      DisplayStatus = "overdue"
	StatusInProgress   DisplayStatus = "in-progress"
	StatusBooked       DisplayStatus = "booked"
	StatusUpcoming     DisplayStatus = "upcoming"
	StatusUnknown      DisplayStatus = "unknown"
	StatusUpToDate     DisplayStatus = "up-to-date"
	StatusExpired      DisplayStatus = "expired"
	StatusOptedOut     DisplayStatus = "opted-out"
)

// Exclusion names the filter that removed a programme from a person's list.
type Exclusion string

const (
	ExcludedNone            Exclusion = ""
	ExcludedOutOfSeason     Exclusion = "out-of-season"
	ExcludedSex             Exclusion = "sex"
	ExcludedPrerequisite    Exclusion = "prerequisite"
	ExcludedByCondition     Exclusion = "excluded-condition"
	ExcludedNoOptOut        Exclusion = "requires-opt-out"
	ExcludedAboveMaxAge     Exclusion = "above-max-age"
	ExcludedBelowMinAge     Exclusion = "below-min-age"
	ExcludedConditionsUnmet Exclusion = "conditions-not-met"
)

// Result is one row of a person's screenings and vaccinations list.
type Result struct {
	Id                 string        `json:"id"`
	Name               string        `json:"name"`
	Type               ProgrammeType `json:"type"`
	Description        string        `json:"description"`
	DisplayStatus      DisplayStatus `json:"displayStatus"`
	StatusText         string        `json:"statusText"`
	LastDate           *Date         `json:"lastDate"`
	NextDueDate        *Date         `json:"nextDueDate"`
	OverdueDays        int           `json:"overdueDays"`
	Doses              int           `json:"doses,omitempty"`
	RequiredDoses      int           `json:"requiredDoses,omitempty"`
	EligibilityReasons []string      `json:"eligibilityReasons"`
	UnknownConditions  []string      `json:"unknownConditions"`
	ReasonText         string        `json:"reasonText,omitempty"`
}

// evaluation carries the intermediate results for one candidate programme.
type evaluation struct {
	prog      *Programme
	minAgeOk  bool
	condition ConditionResult
	history   HistoryInfo
}

// programmesForPerson returns the programmes that apply to a person, in
// catalogue order, each with its display status. It reads the person and
// catalogue without modifying either.
func programmesForPerson(person *Person, catalogue *Catalogue, today time.Time) []Result {
	today = toDate(today)
	age := person.AgeOn(today)

	results := []Result{}
	for i := range catalogue.All() {
		prog := &catalogue.All()[i]

		ev, exclusion := checkCandidate(person, prog, age, today)
		if exclusion != ExcludedNone {
			continue
		}

		ev.history = checkHistory(person, prog, today)
		status := resolveStatus(person, ev, today)

		results = append(results, Result{
			Id:                 prog.Id,
			Name:               prog.Name,
			Type:               prog.Type,
			Description:        prog.Description,
			DisplayStatus:      status,
			StatusText:         statusText(prog, status, ev.history, today),
			LastDate:           ev.history.LastDate,
			NextDueDate:        ev.history.NextDueDate,
			OverdueDays:        ev.history.OverdueDays,
			Doses:              ev.history.Doses,
			RequiredDoses:      ev.history.RequiredDoses,
			EligibilityReasons: eligibilityReasons(prog.Eligibility.Conditions, person),
			UnknownConditions:  unknownConditions(prog.Eligibility.Conditions, person),
		})
	}

	return results
}

// checkCandidate applies the filters in order and returns the first one the
// programme fails.
func checkCandidate(person *Person, prog *Programme, age int, today time.Time) (*evaluation, Exclusion) {
	rules := &prog.Eligibility

	if !inSeasonalWindow(prog.SeasonalWindow, today) {
		return nil, ExcludedOutOfSeason
	}

	if !rules.sexAllowed(person.Sex) {
		return nil, ExcludedSex
	}

	if !checkRequires(person, rules.Requires, today) {
		return nil, ExcludedPrerequisite
	}

	// Exclude if any exclude condition is confirmed true
	for _, key := range rules.ExcludeConditions {
		if person.Condition(key) == Yes {
			return nil, ExcludedByCondition
		}
	}

	// Only offered once the person has opted out of the referenced programme
	if rules.RequiresOptOut != "" {
		entry, ok := person.Entry(rules.RequiresOptOut)
		if !ok || !entry.OptedOut {
			return nil, ExcludedNoOptOut
		}
	}

	// Max age is always enforced, conditions never override it
	band := rules.ageBand()
	if band.Max != nil && age > *band.Max {
		return nil, ExcludedAboveMaxAge
	}

	ev := &evaluation{
		prog:      prog,
		minAgeOk:  age >= band.Min,
		condition: evaluateConditions(rules.Conditions, person),
	}

	switch {
	case rules.Conditions == nil:
		if !ev.minAgeOk {
			return nil, ExcludedBelowMinAge
		}

	case rules.Conditions.Mode == ModeAnd:
		// Both age and conditions required. Unknown stays in pending an answer.
		if ev.condition == ConditionIneligible {
			return nil, ExcludedConditionsUnmet
		}
		if !ev.minAgeOk {
			return nil, ExcludedBelowMinAge
		}

	default:
		// Age alone or conditions alone can qualify
		if ev.condition == ConditionIneligible && !ev.minAgeOk {
			return nil, ExcludedConditionsUnmet
		}
	}

	return ev, ExcludedNone
}

// checkRequires reports whether every prerequisite programme has a date on or
// before today. Unknown programme ids are never satisfied.
func checkRequires(person *Person, requires []string, today time.Time) bool {
	for _, id := range requires {
		entry, ok := person.Entry(id)
		if !ok || entry.LastDate == nil || entry.LastDate.IsZero() {
			return false
		}
		if isAfterDay(entry.LastDate.Time, today) {
			return false
		}
	}
	return true
}

// daysSinceEligible counts the days since the person reached the programme's
// minimum age. It needs a date of birth.
func daysSinceEligible(person *Person, band AgeBand, today time.Time) (int, bool) {
	if person.DateOfBirth == nil || person.DateOfBirth.IsZero() {
		return 0, false
	}
	eligibleDate := addYears(person.DateOfBirth.Time, band.Min)
	days := daysBetween(eligibleDate, today)
	if days < 0 {
		return 0, false
	}
	return days, true
}

// statusRule decides a display status, or declines so the next rule runs.
type statusRule func(person *Person, ev *evaluation, today time.Time) (DisplayStatus, bool)

// statusRules are evaluated top to bottom and the first match wins.
var statusRules = []statusRule{
	ruleOptedOut,
	ruleUnconfirmedConditions,
	ruleExpired,
	ruleDue,
	ruleInProgress,
	ruleBooked,
	ruleUpcoming,
}

func resolveStatus(person *Person, ev *evaluation, today time.Time) DisplayStatus {
	for _, rule := range statusRules {
		if status, ok := rule(person, ev, today); ok {
			return status
		}
	}
	return StatusUpToDate
}

func ruleOptedOut(_ *Person, ev *evaluation, _ time.Time) (DisplayStatus, bool) {
	return StatusOptedOut, ev.history.Status == HistoryOptedOut
}

// ruleUnconfirmedConditions asks the person to check eligibility when the
// conditions are unknown and nothing else qualifies them.
func ruleUnconfirmedConditions(_ *Person, ev *evaluation, _ time.Time) (DisplayStatus, bool) {
	if ev.condition != ConditionUnknown {
		return "", false
	}
	rules := &ev.prog.Eligibility
	andMode := rules.Conditions != nil && rules.Conditions.Mode == ModeAnd
	return StatusUnknown, andMode || !ev.minAgeOk || rules.RequireConditions
}

func ruleExpired(_ *Person, ev *evaluation, _ time.Time) (DisplayStatus, bool) {
	schedule := ev.prog.Schedule
	if ev.history.Status != HistoryOverdue || schedule == nil || schedule.ExpiryDays <= 0 {
		return "", false
	}
	return StatusExpired, ev.history.OverdueDays > schedule.ExpiryDays
}

// ruleDue handles programmes that are due now. With a grace period a
// never-had programme escalates to overdue once the person has been eligible
// for longer than the grace period.
func ruleDue(person *Person, ev *evaluation, today time.Time) (DisplayStatus, bool) {
	status := ev.history.Status
	if status != HistoryNeverHad && status != HistoryOverdue {
		return "", false
	}

	grace := ev.prog.OverdueDays
	if grace <= 0 {
		return StatusActionNeeded, true
	}

	// Recurring programme past its interval
	if status == HistoryOverdue {
		return StatusOverdue, true
	}

	days, ok := daysSinceEligible(person, ev.prog.Eligibility.ageBand(), today)
	if ok && days > grace {
		ev.history.OverdueDays = days
		return StatusOverdue, true
	}
	return StatusActionNeeded, true
}

func ruleInProgress(_ *Person, ev *evaluation, _ time.Time) (DisplayStatus, bool) {
	return StatusInProgress, ev.history.Status == HistoryPartial
}

func ruleBooked(_ *Person, ev *evaluation, _ time.Time) (DisplayStatus, bool) {
	return StatusBooked, ev.history.Status == HistoryBooked
}

func ruleUpcoming(_ *Person, ev *evaluation, _ time.Time) (DisplayStatus, bool) {
	return StatusUpcoming, ev.history.Status == HistoryUpcoming
}
