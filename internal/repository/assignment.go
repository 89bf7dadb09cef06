package repository

import (
	"context"

	"github.com/shiftsched/workforce/internal/domain"
)

// AssignmentRepository persists ShiftAssignment rows. InsertBatch is
// atomic: either the full 28×N set lands or none does (§4.5, invariant 8).
type AssignmentRepository interface {
	InsertBatch(ctx context.Context, assignments []*domain.ShiftAssignment) error
	// FindByJob returns assignments ordered by (date, staff_id) (§4.5).
	FindByJob(ctx context.Context, jobID string) ([]*domain.ShiftAssignment, error)
}
