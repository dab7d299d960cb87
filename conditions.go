package main

import (
	"fmt"
)

// Tristate is a clinical attribute that is confirmed present, confirmed
// absent, or not known. The zero value is Unknown.
type Tristate int

const (
	Unknown Tristate = iota
	Yes
	No
)

func (t Tristate) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

func (t *Tristate) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*t = Yes
	case "false":
		*t = No
	case "null":
		*t = Unknown
	default:
		return fmt.Errorf("condition must be true, false or null, got %s", string(data))
	}
	return nil
}

func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

type GateMode string

const (
	ModeAnd GateMode = "and"
	ModeOr  GateMode = "or"
)

// ConditionGate lists the conditions a programme depends on and how they
// combine.
type ConditionGate struct {
	Mode     GateMode `json:"mode"`
	Required []string `json:"required"`
}

type ConditionResult string

const (
	ConditionEligible   ConditionResult = "eligible"
	ConditionIneligible ConditionResult = "ineligible"
	ConditionUnknown    ConditionResult = "unknown"
)

var conditionLabels = map[string]string{
	"diabetes":          "you have diabetes",
	"smoker":            "you smoke",
	"exSmoker":          "you used to smoke",
	"pregnant":          "you are pregnant",
	"clinicalRiskGroup": "you have a health condition",
	"carer":             "you are a carer",
	"immunosuppressed":  "you have a weakened immune system",
	"careHomeResident":  "you live in a care home",
}

var conditionQuestions = map[string]string{
	"diabetes":          "Do you have diabetes?",
	"smoker":            "Do you currently smoke?",
	"exSmoker":          "Have you smoked in the past?",
	"pregnant":          "Are you currently pregnant?",
	"clinicalRiskGroup": "Do you have a long-term health condition?",
	"carer":             "Are you an unpaid carer?",
	"immunosuppressed":  "Do you have a weakened immune system?",
	"careHomeResident":  "Do you live in a care home?",
}

func conditionLabel(key string) string {
	if label, ok := conditionLabels[key]; ok {
		return label
	}
	return key
}

func conditionQuestion(key string) string {
	if question, ok := conditionQuestions[key]; ok {
		return question
	}
	return key
}

func evaluateConditions(gate *ConditionGate, person *Person) ConditionResult {
	/*
	 * AND: eligible when every required condition is yes,
	 *      ineligible when any is no, otherwise unknown
	 * OR:  eligible when any required condition is yes,
	 *      ineligible when every one is no, otherwise unknown
	 */

	// Nothing to check
	if gate == nil {
		return ConditionEligible
	}

	// Count answers across the required conditions
	var yes, no int
	for _, key := range gate.Required {
		switch person.Condition(key) {
		case Yes:
			yes++
		case No:
			no++
		}
	}
	total := len(gate.Required)

	if gate.Mode == ModeAnd {
		switch {
		case yes == total:
			return ConditionEligible
		case no > 0:
			return ConditionIneligible
		default:
			return ConditionUnknown
		}
	}

	// Anything other than "and" combines with OR
	switch {
	case yes > 0:
		return ConditionEligible
	case no == total:
		return ConditionIneligible
	default:
		return ConditionUnknown
	}
}

// eligibilityReasons returns labels for the required conditions the person
// has confirmed.
func eligibilityReasons(gate *ConditionGate, person *Person) []string {
	reasons := []string{}
	if gate == nil {
		return reasons
	}
	for _, key := range gate.Required {
		if person.Condition(key) == Yes {
			reasons = append(reasons, conditionLabel(key))
		}
	}
	return reasons
}

// unknownConditions returns the required condition keys with no answer yet.
func unknownConditions(gate *ConditionGate, person *Person) []string {
	keys := []string{}
	if gate == nil {
		return keys
	}
	for _, key := range gate.Required {
		if person.Condition(key) == Unknown {
			keys = append(keys, key)
		}
	}
	return keys
}
