package rules

import (
	"fmt"

	"github.com/shiftsched/workforce/internal/domain"
)

// ShiftBalance rejects a morning or evening candidate that would push that
// day's team-wide morning/evening split further apart than Delta, keeping
// each day's two shift types roughly even across the whole roster.
type ShiftBalance struct {
	Delta int
}

func (ShiftBalance) Name() string { return "ShiftBalance" }

func (r ShiftBalance) Validate(ctx AssignmentContext) error {
	if ctx.Shift != domain.ShiftMorning && ctx.Shift != domain.ShiftEvening {
		return nil
	}

	mornings, evenings := shiftCountsOnDate(ctx)
	if ctx.Shift == domain.ShiftMorning {
		mornings++
	} else {
		evenings++
	}

	diff := mornings - evenings
	if diff < 0 {
		diff = -diff
	}
	if diff > r.Delta {
		return fmt.Errorf("assigning %s shift on %s would unbalance the morning/evening split beyond %d",
			ctx.Shift, ctx.Date.Format("2006-01-02"), r.Delta)
	}
	return nil
}

// shiftCountsOnDate counts how many staff are already assigned MORNING and
// EVENING on ctx.Date, across every staff member in ctx.Assignments — the
// candidate's own staff id included, since it may already hold an
// assignment for a different date and is otherwise unassigned on this one.
func shiftCountsOnDate(ctx AssignmentContext) (mornings, evenings int) {
	for _, staffAssignments := range ctx.Assignments {
		switch staffAssignments[ctx.Date] {
		case domain.ShiftMorning:
			mornings++
		case domain.ShiftEvening:
			evenings++
		}
	}
	return mornings, evenings
}
