package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

type ProgrammeType string

const (
	TypeScreening ProgrammeType = "screening"
	TypeVaccine   ProgrammeType = "vaccine"
)

type ScheduleType string

const (
	ScheduleOneOff    ScheduleType = "one-off"
	ScheduleRecurring ScheduleType = "recurring"
	ScheduleMultiDose ScheduleType = "multi-dose"
)

// AgeBand bounds eligibility in whole years. A nil Max is unbounded.
type AgeBand struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

type Eligibility struct {
	Age               *AgeBand       `json:"age"`
	Sex               string         `json:"sex"`
	Conditions        *ConditionGate `json:"conditions,omitempty"`
	RequireConditions bool           `json:"requireConditions,omitempty"`
	Requires          []string       `json:"requires,omitempty"`
	ExcludeConditions []string       `json:"excludeConditions,omitempty"`
	RequiresOptOut    string         `json:"requiresOptOut,omitempty"`
}

// ageBand returns the configured band, or an unbounded band from zero when
// the catalogue entry has none.
func (e *Eligibility) ageBand() AgeBand {
	if e.Age == nil {
		return AgeBand{}
	}
	return *e.Age
}

func (e *Eligibility) sexAllowed(sex Sex) bool {
	return e.Sex == "" || e.Sex == "all" || e.Sex == string(sex)
}

type Schedule struct {
	Type          ScheduleType `json:"type"`
	IntervalYears int          `json:"intervalYears,omitempty"`
	Doses         int          `json:"doses,omitempty"`
	ExpiryDays    int          `json:"expiryDays,omitempty"`
}

// Programme is one screening or vaccination in the catalogue.
type Programme struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	Type           ProgrammeType   `json:"type"`
	Description    string          `json:"description"`
	Settings       []string        `json:"settings"`
	WalkIn         bool            `json:"walkIn,omitempty"`
	OverdueDays    int             `json:"overdueDays,omitempty"`
	SeasonalWindow *SeasonalWindow `json:"seasonalWindow,omitempty"`
	Eligibility    Eligibility     `json:"eligibility"`
	Schedule       *Schedule       `json:"schedule"`
	Messages       Messages        `json:"messages,omitempty"`
}

// Catalogue is the immutable, ordered list of programmes.
type Catalogue struct {
	programmes []Programme
	index      map[string]int
}

func NewCatalogue(programmes []Programme) *Catalogue {
	c := &Catalogue{
		programmes: programmes,
		index:      make(map[string]int, len(programmes)),
	}
	for i, p := range programmes {
		// First definition wins; duplicates are reported by Validate
		if _, ok := c.index[p.Id]; !ok {
			c.index[p.Id] = i
		}
	}
	return c
}

func (c *Catalogue) All() []Programme {
	return c.programmes
}

func (c *Catalogue) Get(id string) (*Programme, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProgrammeNotFound, id)
	}
	return &c.programmes[i], nil
}

// Validate reports problems with the catalogue without rejecting it. A bad
// entry degrades that one programme, so callers log these as warnings.
func (c *Catalogue) Validate() []string {
	var problems []string
	seen := map[string]bool{}

	for _, p := range c.programmes {
		if seen[p.Id] {
			problems = append(problems, fmt.Sprintf("%s: duplicate programme id", p.Id))
		}
		seen[p.Id] = true

		if p.Eligibility.Age == nil {
			problems = append(problems, fmt.Sprintf("%s: missing eligibility age band", p.Id))
		} else if p.Eligibility.Age.Max != nil && *p.Eligibility.Age.Max < p.Eligibility.Age.Min {
			problems = append(problems, fmt.Sprintf("%s: age max %d below min %d", p.Id, *p.Eligibility.Age.Max, p.Eligibility.Age.Min))
		}

		switch {
		case p.Schedule == nil:
			problems = append(problems, fmt.Sprintf("%s: missing schedule", p.Id))
		case p.Schedule.Type == ScheduleRecurring && p.Schedule.IntervalYears <= 0:
			problems = append(problems, fmt.Sprintf("%s: recurring schedule without intervalYears", p.Id))
		case p.Schedule.Type == ScheduleMultiDose && p.Schedule.Doses <= 0:
			problems = append(problems, fmt.Sprintf("%s: multi-dose schedule without doses", p.Id))
		case p.Schedule.Type != ScheduleOneOff && p.Schedule.Type != ScheduleRecurring && p.Schedule.Type != ScheduleMultiDose:
			problems = append(problems, fmt.Sprintf("%s: unsupported schedule type %q", p.Id, p.Schedule.Type))
		}

		if p.SeasonalWindow != nil {
			if _, _, err := p.SeasonalWindow.bounds(); err != nil {
				problems = append(problems, fmt.Sprintf("%s: seasonal window: %v", p.Id, err))
			}
		}

		for _, req := range p.Eligibility.Requires {
			if _, ok := c.index[req]; !ok {
				problems = append(problems, fmt.Sprintf("%s: requires unknown programme %s", p.Id, req))
			}
		}
		if ref := p.Eligibility.RequiresOptOut; ref != "" {
			if _, ok := c.index[ref]; !ok {
				problems = append(problems, fmt.Sprintf("%s: requiresOptOut unknown programme %s", p.Id, ref))
			}
		}
	}

	return append(problems, c.prerequisiteCycles()...)
}

// prerequisiteCycles walks the requires references and reports any programme
// that can reach itself.
func (c *Catalogue) prerequisiteCycles() []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(c.programmes))
	var problems []string

	var visit func(id string, path []string)
	visit = func(id string, path []string) {
		i, ok := c.index[id]
		if !ok || state[id] == done {
			return
		}
		if state[id] == visiting {
			problems = append(problems, fmt.Sprintf("%s: prerequisite cycle %v", id, append(path, id)))
			return
		}
		state[id] = visiting
		for _, req := range c.programmes[i].Eligibility.Requires {
			visit(req, append(path, id))
		}
		state[id] = done
	}

	for _, p := range c.programmes {
		if state[p.Id] == unvisited {
			visit(p.Id, nil)
		}
	}
	return problems
}

// loadJSON decodes a fixture from fileName, or from the embedded default
// when fileName is empty.
func loadJSON(fileName, embedded string, v any) error {
	var (
		data []byte
		err  error
	)
	if fileName == "" {
		data, err = fixtures.ReadFile(embedded)
	} else {
		data, err = os.ReadFile(fileName)
	}
	if err != nil {
		return fmt.Errorf("error reading %s: %w", firstNonEmpty(fileName, embedded), err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error parsing %s: %w", firstNonEmpty(fileName, embedded), err)
	}
	return nil
}

func loadCatalogue(fileName string) (*Catalogue, error) {
	var programmes []Programme
	if err := loadJSON(fileName, "data/programmes.json", &programmes); err != nil {
		return nil, err
	}
	return NewCatalogue(programmes), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
