package main

import (
	"reflect"
	"testing"

	json "github.com/goccy/go-json"
)

func TestEvaluateConditions(t *testing.T) {
	and := &ConditionGate{Mode: ModeAnd, Required: []string{"diabetes", "pregnant"}}
	or := &ConditionGate{Mode: ModeOr, Required: []string{"smoker", "exSmoker"}}

	tests := []struct {
		name       string
		gate       *ConditionGate
		conditions map[string]Tristate
		want       ConditionResult
	}{
		{"no gate", nil, nil, ConditionEligible},
		{"and all yes", and, map[string]Tristate{"diabetes": Yes, "pregnant": Yes}, ConditionEligible},
		{"and one no", and, map[string]Tristate{"diabetes": Yes, "pregnant": No}, ConditionIneligible},
		{"and no beats unknown", and, map[string]Tristate{"pregnant": No}, ConditionIneligible},
		{"and one unknown", and, map[string]Tristate{"diabetes": Yes}, ConditionUnknown},
		{"and all unknown", and, nil, ConditionUnknown},
		{"or one yes", or, map[string]Tristate{"exSmoker": Yes}, ConditionEligible},
		{"or yes beats no", or, map[string]Tristate{"smoker": No, "exSmoker": Yes}, ConditionEligible},
		{"or all no", or, map[string]Tristate{"smoker": No, "exSmoker": No}, ConditionIneligible},
		{"or no and unknown", or, map[string]Tristate{"smoker": No}, ConditionUnknown},
		{"empty and", &ConditionGate{Mode: ModeAnd}, nil, ConditionEligible},
		{"empty or", &ConditionGate{Mode: ModeOr}, nil, ConditionIneligible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			person := &Person{Conditions: tt.conditions}
			if got := evaluateConditions(tt.gate, person); got != tt.want {
				t.Errorf("evaluateConditions() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConditionLabels(t *testing.T) {
	gate := &ConditionGate{Mode: ModeOr, Required: []string{"clinicalRiskGroup", "carer", "madeUp"}}
	person := &Person{Conditions: map[string]Tristate{"clinicalRiskGroup": Yes, "madeUp": Yes}}

	reasons := eligibilityReasons(gate, person)
	if want := []string{"you have a health condition", "madeUp"}; !reflect.DeepEqual(reasons, want) {
		t.Errorf("eligibilityReasons() = %v, want %v", reasons, want)
	}

	unknown := unknownConditions(gate, person)
	if want := []string{"carer"}; !reflect.DeepEqual(unknown, want) {
		t.Errorf("unknownConditions() = %v, want %v", unknown, want)
	}

	if got := conditionQuestion("carer"); got != "Are you an unpaid carer?" {
		t.Errorf("conditionQuestion() = %q", got)
	}
	if got := conditionQuestion("madeUp"); got != "madeUp" {
		t.Errorf("unknown key should fall back to itself, got %q", got)
	}

	if reasons := eligibilityReasons(nil, person); reasons == nil || len(reasons) != 0 {
		t.Errorf("nil gate should give an empty list, got %#v", reasons)
	}
}

func TestTristateJSON(t *testing.T) {
	var person Person
	data := `{"id":"x","sex":"male","age":30,"conditions":{"diabetes":true,"smoker":false,"carer":null}}`
	if err := json.Unmarshal([]byte(data), &person); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for key, want := range map[string]Tristate{"diabetes": Yes, "smoker": No, "carer": Unknown, "pregnant": Unknown} {
		if got := person.Condition(key); got != want {
			t.Errorf("Condition(%s) = %s, want %s", key, got, want)
		}
	}

	out, err := json.Marshal(map[string]Tristate{"a": Yes, "b": No, "c": Unknown})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":true,"b":false,"c":null}` {
		t.Errorf("marshal = %s", out)
	}

	var bad Tristate
	if err := json.Unmarshal([]byte(`"yes"`), &bad); err == nil {
		t.Error("expected error for string condition")
	}
}
