package rules

import (
	"fmt"

	"github.com/shiftsched/workforce/internal/domain"
)

// MaxDaysOffPerWeek rejects a day-off candidate once the staff member has
// already reached Max days off in the same ISO-Monday-anchored week.
type MaxDaysOffPerWeek struct {
	Max int
}

func (MaxDaysOffPerWeek) Name() string { return "MaxDaysOffPerWeek" }

func (r MaxDaysOffPerWeek) Validate(ctx AssignmentContext) error {
	if ctx.Shift != domain.ShiftDayOff {
		return nil
	}

	start := weekStart(ctx.Date)
	current := daysOffInWeek(ctx, start)

	if current >= r.Max {
		return fmt.Errorf("assigning a day off on %s would exceed the maximum %d days off this week",
			ctx.Date.Format("2006-01-02"), r.Max)
	}
	return nil
}
