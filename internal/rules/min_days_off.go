package rules

import (
	"fmt"
	"time"

	"github.com/shiftsched/workforce/internal/domain"
)

// MinDaysOffPerWeek rejects a work-shift candidate if the remaining days
// in the ISO-Monday-anchored week could no longer reach Min days off.
type MinDaysOffPerWeek struct {
	Min int
}

func (MinDaysOffPerWeek) Name() string { return "MinDaysOffPerWeek" }

func (r MinDaysOffPerWeek) Validate(ctx AssignmentContext) error {
	if ctx.Shift == domain.ShiftDayOff {
		return nil
	}

	start := weekStart(ctx.Date)
	current := daysOffInWeek(ctx, start)
	remaining := remainingDaysInWeek(ctx.Date, start)

	if current+remaining < r.Min {
		return fmt.Errorf("assigning a work shift on %s would make it impossible to reach the minimum %d days off this week",
			ctx.Date.Format("2006-01-02"), r.Min)
	}
	return nil
}

// remainingDaysInWeek counts the days strictly after date through the end
// of the week (the Sunday 6 days after start) — date itself is excluded
// since it is the day currently being assigned a work shift, not a day off.
func remainingDaysInWeek(date, start time.Time) int {
	weekEnd := start.AddDate(0, 0, 6)
	if date.After(weekEnd) {
		return 0
	}
	diff := int(weekEnd.Sub(date).Hours() / 24)
	if diff < 0 {
		return 0
	}
	return diff
}
