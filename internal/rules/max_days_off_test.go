package rules

import (
	"testing"
	"time"

	"github.com/shiftsched/workforce/internal/domain"
)

func TestMaxDaysOffPerWeek_RejectsWhenAtLimit(t *testing.T) {
	rule := MaxDaysOffPerWeek{Max: 2}

	monday := date(2026, 1, 5)
	ctx := AssignmentContext{
		Assignments: map[string]map[time.Time]domain.Shift{
			"staff-1": {
				monday:                  domain.ShiftDayOff,
				monday.AddDate(0, 0, 1): domain.ShiftDayOff,
			},
		},
		StaffID: "staff-1",
		Date:    monday.AddDate(0, 0, 2),
		Shift:   domain.ShiftDayOff,
	}

	if err := rule.Validate(ctx); err == nil {
		t.Fatal("expected rejection: already at the 2-day-off limit for the week")
	}
}

func TestMaxDaysOffPerWeek_AllowsBelowLimit(t *testing.T) {
	rule := MaxDaysOffPerWeek{Max: 2}

	monday := date(2026, 1, 5)
	ctx := AssignmentContext{
		Assignments: map[string]map[time.Time]domain.Shift{
			"staff-1": {monday: domain.ShiftDayOff},
		},
		StaffID: "staff-1",
		Date:    monday.AddDate(0, 0, 1),
		Shift:   domain.ShiftDayOff,
	}

	if err := rule.Validate(ctx); err != nil {
		t.Fatalf("expected no rejection below the limit, got %v", err)
	}
}

func TestMaxDaysOffPerWeek_IgnoresWorkShiftCandidates(t *testing.T) {
	rule := MaxDaysOffPerWeek{Max: 0}

	ctx := AssignmentContext{
		Assignments: map[string]map[time.Time]domain.Shift{},
		StaffID:     "staff-1",
		Date:        date(2026, 1, 5),
		Shift:       domain.ShiftMorning,
	}

	if err := rule.Validate(ctx); err != nil {
		t.Fatalf("work-shift candidates should never be rejected by this rule, got %v", err)
	}
}
