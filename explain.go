package main

import (
	"fmt"
	"strings"
	"time"
)

// Excluded is a catalogue programme that did not apply to a person.
type Excluded struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Exclusion Exclusion `json:"exclusion"`
	Reason    string    `json:"reason"`
}

// explainResults fills in the reason text of each result: the age band it
// matched, confirmed conditions and conditions still unknown.
func explainResults(results []Result, person *Person, catalogue *Catalogue, today time.Time) {
	age := person.AgeOn(today)

	for i := range results {
		r := &results[i]
		prog, err := catalogue.Get(r.Id)
		if err != nil {
			continue
		}

		var reasons []string
		band := prog.Eligibility.ageBand()
		if age >= band.Min && (band.Max == nil || age <= *band.Max) {
			reasons = append(reasons, fmt.Sprintf("age %d is within %d-%s", age, band.Min, formatMaxAge(band.Max)))
		}
		if len(r.EligibilityReasons) > 0 {
			reasons = append(reasons, strings.Join(r.EligibilityReasons, ", "))
		}
		if len(r.UnknownConditions) > 0 {
			reasons = append(reasons, "unknown: "+strings.Join(r.UnknownConditions, ", "))
		}

		r.ReasonText = strings.Join(reasons, " + ")
		if r.ReasonText == "" {
			r.ReasonText = "no specific reason"
		}
	}
}

// excludedProgrammes lists the programmes left out of a person's results and
// the filter that removed each one.
func excludedProgrammes(person *Person, catalogue *Catalogue, today time.Time) []Excluded {
	today = toDate(today)
	age := person.AgeOn(today)

	excluded := []Excluded{}
	for i := range catalogue.All() {
		prog := &catalogue.All()[i]

		_, exclusion := checkCandidate(person, prog, age, today)
		if exclusion == ExcludedNone {
			continue
		}

		excluded = append(excluded, Excluded{
			Id:        prog.Id,
			Name:      prog.Name,
			Exclusion: exclusion,
			Reason:    exclusionReason(exclusion, person, prog, age),
		})
	}
	return excluded
}

func exclusionReason(exclusion Exclusion, person *Person, prog *Programme, age int) string {
	rules := &prog.Eligibility
	band := rules.ageBand()

	switch exclusion {
	case ExcludedOutOfSeason:
		return fmt.Sprintf("outside seasonal window %s to %s", prog.SeasonalWindow.Start, prog.SeasonalWindow.End)
	case ExcludedSex:
		return fmt.Sprintf("sex is %s (needs %s)", person.Sex, rules.Sex)
	case ExcludedPrerequisite:
		return "needs " + strings.Join(rules.Requires, ", ") + " first"
	case ExcludedByCondition:
		var confirmed []string
		for _, key := range rules.ExcludeConditions {
			if person.Condition(key) == Yes {
				confirmed = append(confirmed, conditionLabel(key))
			}
		}
		return "excluded because " + strings.Join(confirmed, ", ")
	case ExcludedNoOptOut:
		return "only offered after opting out of " + rules.RequiresOptOut
	case ExcludedAboveMaxAge:
		return fmt.Sprintf("age %d above max %s", age, formatMaxAge(band.Max))
	case ExcludedBelowMinAge:
		return fmt.Sprintf("age %d below min %d", age, band.Min)
	case ExcludedConditionsUnmet:
		if age < band.Min {
			return fmt.Sprintf("age %d below min %d, conditions not met", age, band.Min)
		}
		return "conditions not met"
	}
	return string(exclusion)
}

func formatMaxAge(max *int) string {
	if max == nil {
		return "no limit"
	}
	return fmt.Sprint(*max)
}
