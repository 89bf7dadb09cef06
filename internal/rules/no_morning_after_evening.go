package rules

import (
	"fmt"

	"github.com/shiftsched/workforce/internal/domain"
)

// NoMorningAfterEvening rejects a MORNING candidate whose prior calendar
// day was EVENING for the same staff, and (symmetrically, for
// composability — the generator only ever assigns in ascending date
// order, so this direction is unreachable in practice) an EVENING
// candidate whose next day is already MORNING.
type NoMorningAfterEvening struct{}

func (NoMorningAfterEvening) Name() string { return "NoMorningAfterEvening" }

func (NoMorningAfterEvening) Validate(ctx AssignmentContext) error {
	staffAssignments := ctx.Assignments[ctx.StaffID]

	if ctx.Shift == domain.ShiftMorning {
		prev := ctx.Date.AddDate(0, 0, -1)
		if shift, ok := staffAssignments[prev]; ok && shift == domain.ShiftEvening {
			return fmt.Errorf("cannot assign morning shift on %s after evening shift on previous day",
				ctx.Date.Format("2006-01-02"))
		}
	}

	if ctx.Shift == domain.ShiftEvening {
		next := ctx.Date.AddDate(0, 0, 1)
		if shift, ok := staffAssignments[next]; ok && shift == domain.ShiftMorning {
			return fmt.Errorf("cannot assign evening shift on %s before morning shift on next day",
				ctx.Date.Format("2006-01-02"))
		}
	}

	return nil
}
