// Package scheduler implements the greedy 28-day shift assignment
// algorithm at the heart of the scheduling service, grounded on the
// original Rust domain/schedule_generator.rs.
package scheduler

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/rules"
)

const PeriodDays = 28

// Generator assigns MORNING, EVENING and DAY_OFF shifts to a roster over a
// fixed 28-day period, balancing shift types per day and falling back to
// accepting a rule violation rather than leaving a day unassigned.
type Generator struct {
	engine *rules.Engine
}

func NewGenerator(engine *rules.Engine) *Generator {
	return &Generator{engine: engine}
}

// Generate produces one assignment per staff member per day over
// PeriodDays days starting at startDate, which must fall on a Monday.
func (g *Generator) Generate(staffIDs []string, startDate time.Time, jobID string) ([]*domain.ShiftAssignment, error) {
	if !domain.IsMonday(startDate) {
		return nil, domain.InvalidInput("schedule must start on a Monday")
	}
	if len(staffIDs) == 0 {
		return nil, domain.InvalidInput("at least one staff member is required")
	}

	assignments := make(map[string]map[time.Time]domain.Shift, len(staffIDs))

	for dayOffset := 0; dayOffset < PeriodDays; dayOffset++ {
		date := startDate.AddDate(0, 0, dayOffset)
		g.assignShiftsForDay(assignments, staffIDs, date)
	}

	result := make([]*domain.ShiftAssignment, 0, len(staffIDs)*PeriodDays)
	for staffID, staffAssignments := range assignments {
		for date, shift := range staffAssignments {
			result = append(result, &domain.ShiftAssignment{
				ID:            uuid.NewString(),
				ScheduleJobID: jobID,
				StaffID:       staffID,
				Date:          date,
				Shift:         shift,
				CreatedAt:     time.Now().UTC(),
			})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].StaffID < result[j].StaffID
	})

	return result, nil
}

func (g *Generator) assignShiftsForDay(assignments map[string]map[time.Time]domain.Shift, staffIDs []string, date time.Time) {
	unassigned := make([]string, 0, len(staffIDs))
	for _, id := range staffIDs {
		if _, ok := assignments[id][date]; !ok {
			unassigned = append(unassigned, id)
		}
	}

	targetMorning := len(unassigned) / 3
	targetEvening := (len(unassigned) - targetMorning) / 2

	unassigned = g.assignShiftType(assignments, unassigned, date, domain.ShiftMorning, targetMorning)
	unassigned = g.assignShiftType(assignments, unassigned, date, domain.ShiftEvening, targetEvening)

	for _, staffID := range unassigned {
		g.tryAssign(assignments, staffID, date, domain.ShiftDayOff)
	}
}

// assignShiftType greedily assigns shift to up to targetCount members of
// candidates that pass the rule engine, returning those left unassigned.
func (g *Generator) assignShiftType(assignments map[string]map[time.Time]domain.Shift, candidates []string, date time.Time, shift domain.Shift, targetCount int) []string {
	remaining := make([]string, 0, len(candidates))
	assignedCount := 0

	for _, staffID := range candidates {
		if assignedCount >= targetCount {
			remaining = append(remaining, staffID)
			continue
		}

		ctx := rules.AssignmentContext{
			Assignments: assignments,
			StaffID:     staffID,
			Date:        date,
			Shift:       shift,
		}

		if g.engine.Validate(ctx) == nil {
			assign(assignments, staffID, date, shift)
			assignedCount++
		} else {
			remaining = append(remaining, staffID)
		}
	}

	return remaining
}

// tryAssign attempts the preferred shift, then its fallbacks, and as a
// last resort assigns the preferred shift anyway even if every rule
// rejects it — an unfilled day is worse than a rule violation (§4.7).
func (g *Generator) tryAssign(assignments map[string]map[time.Time]domain.Shift, staffID string, date time.Time, preferred domain.Shift) {
	if g.tryCandidate(assignments, staffID, date, preferred) {
		return
	}

	var alternatives []domain.Shift
	if preferred == domain.ShiftDayOff {
		alternatives = []domain.Shift{domain.ShiftMorning, domain.ShiftEvening}
	} else {
		alternatives = []domain.Shift{domain.ShiftDayOff}
	}

	for _, alt := range alternatives {
		if g.tryCandidate(assignments, staffID, date, alt) {
			return
		}
	}

	assign(assignments, staffID, date, preferred)
}

func (g *Generator) tryCandidate(assignments map[string]map[time.Time]domain.Shift, staffID string, date time.Time, shift domain.Shift) bool {
	ctx := rules.AssignmentContext{
		Assignments: assignments,
		StaffID:     staffID,
		Date:        date,
		Shift:       shift,
	}
	if g.engine.Validate(ctx) != nil {
		return false
	}
	assign(assignments, staffID, date, shift)
	return true
}

func assign(assignments map[string]map[time.Time]domain.Shift, staffID string, date time.Time, shift domain.Shift) {
	if assignments[staffID] == nil {
		assignments[staffID] = make(map[time.Time]domain.Shift, PeriodDays)
	}
	assignments[staffID][date] = shift
}
