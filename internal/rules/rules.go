// Package rules implements the composable constraint model described in
// SPEC_FULL.md §4.7: a Rule is a pure predicate over a partial assignment
// plus a candidate (staff, date, shift) triple. Rules are grounded on the
// original Rust domain/rules/*.rs modules, translated one-for-one into Go
// values implementing a shared interface instead of trait objects.
package rules

import (
	"time"

	"github.com/shiftsched/workforce/internal/domain"
)

// AssignmentContext is the read-only view a Rule validates a candidate
// against. assignments is never mutated by a rule; the generator owns it
// and passes it by reference rather than snapshotting per candidate
// (SPEC_FULL.md §9 — Go maps are already reference types and the
// generator is single-threaded, so a copy buys nothing).
type AssignmentContext struct {
	Assignments map[string]map[time.Time]domain.Shift
	StaffID     string
	Date        time.Time
	Shift       domain.Shift
}

// Rule returns a non-nil error describing the rejection reason, or nil to
// accept the candidate.
type Rule interface {
	Name() string
	Validate(ctx AssignmentContext) error
}

// Engine evaluates the default rule set in declaration order, the first
// rejection short-circuiting (§4.7).
type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

func DefaultEngine(minDaysOff, maxDaysOff, maxShiftDiff int) *Engine {
	return NewEngine(
		NoMorningAfterEvening{},
		MinDaysOffPerWeek{Min: minDaysOff},
		MaxDaysOffPerWeek{Max: maxDaysOff},
		ShiftBalance{Delta: maxShiftDiff},
	)
}

func (e *Engine) Validate(ctx AssignmentContext) error {
	for _, rule := range e.rules {
		if err := rule.Validate(ctx); err != nil {
			return err
		}
	}
	return nil
}

func weekStart(d time.Time) time.Time {
	return domain.WeekStart(d)
}

func daysOffInWeek(ctx AssignmentContext, weekStart time.Time) int {
	staffAssignments := ctx.Assignments[ctx.StaffID]
	if staffAssignments == nil {
		return 0
	}
	count := 0
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		if shift, ok := staffAssignments[day]; ok && shift == domain.ShiftDayOff {
			count++
		}
	}
	return count
}
