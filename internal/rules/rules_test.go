package rules

import (
	"errors"
	"testing"
	"time"

	"github.com/shiftsched/workforce/internal/domain"
)

type recordingRule struct {
	name   string
	reject bool
	calls  *[]string
}

func (r recordingRule) Name() string { return r.name }

func (r recordingRule) Validate(ctx AssignmentContext) error {
	*r.calls = append(*r.calls, r.name)
	if r.reject {
		return errors.New(r.name + " rejected")
	}
	return nil
}

func TestEngine_ShortCircuitsOnFirstRejection(t *testing.T) {
	var calls []string
	engine := NewEngine(
		recordingRule{name: "first", reject: false, calls: &calls},
		recordingRule{name: "second", reject: true, calls: &calls},
		recordingRule{name: "third", reject: false, calls: &calls},
	)

	err := engine.Validate(AssignmentContext{
		Assignments: map[string]map[time.Time]domain.Shift{},
		StaffID:     "s1",
		Date:        date(2026, 1, 5),
		Shift:       domain.ShiftMorning,
	})

	if err == nil {
		t.Fatal("expected rejection from the second rule")
	}
	if len(calls) != 2 {
		t.Fatalf("expected evaluation to stop after the rejecting rule, got calls %v", calls)
	}
}

func TestEngine_AcceptsWhenAllRulesPass(t *testing.T) {
	var calls []string
	engine := NewEngine(
		recordingRule{name: "first", reject: false, calls: &calls},
		recordingRule{name: "second", reject: false, calls: &calls},
	)

	err := engine.Validate(AssignmentContext{
		Assignments: map[string]map[time.Time]domain.Shift{},
		StaffID:     "s1",
		Date:        date(2026, 1, 5),
		Shift:       domain.ShiftMorning,
	})

	if err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected both rules evaluated, got %v", calls)
	}
}

func TestDefaultEngine_IncludesNoMorningAfterEvening(t *testing.T) {
	engine := DefaultEngine(2, 2, 1)

	monday := date(2026, 1, 5)
	err := engine.Validate(AssignmentContext{
		Assignments: map[string]map[time.Time]domain.Shift{
			"s1": {monday.AddDate(0, 0, -1): domain.ShiftEvening},
		},
		StaffID: "s1",
		Date:    monday,
		Shift:   domain.ShiftMorning,
	})

	if err == nil {
		t.Fatal("expected NoMorningAfterEvening to reject the candidate")
	}
}
