package repository

import (
	"context"
	"time"

	"github.com/shiftsched/workforce/internal/domain"
)

// JobRepository persists ScheduleJob and enforces its status lifecycle
// (§4.4): the store itself rejects illegal transitions rather than
// trusting callers to only request legal ones.
type JobRepository interface {
	Create(ctx context.Context, job *domain.ScheduleJob) (*domain.ScheduleJob, error)
	FindByID(ctx context.Context, id string) (*domain.ScheduleJob, error)
	// Transition moves a job to newStatus, bumping updated_at and, for
	// JobCompleted, completed_at. errMsg is only stored for JobFailed.
	Transition(ctx context.Context, id string, newStatus domain.JobStatus, errMsg *string) error
	// FindStaleProcessing returns jobs stuck in PROCESSING since before
	// cutoff, for the reaper hardening described in SPEC_FULL.md §4.6.
	FindStaleProcessing(ctx context.Context, cutoff time.Time, limit int) ([]*domain.ScheduleJob, error)
}
