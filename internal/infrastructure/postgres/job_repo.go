package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftsched/workforce/internal/domain"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.ScheduleJob) (*domain.ScheduleJob, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = domain.JobPending
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO schedule_jobs (id, staff_group_id, period_begin_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, staff_group_id, period_begin_date, status, error_message, created_at, updated_at, completed_at`,
		job.ID, job.StaffGroupID, job.PeriodBeginDate, job.Status)

	created, err := scanJob(row)
	if err != nil {
		return nil, domain.DatabaseError("create schedule job", err)
	}
	return created, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.ScheduleJob, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, staff_group_id, period_begin_date, status, error_message, created_at, updated_at, completed_at
		FROM schedule_jobs WHERE id = $1`, id)
	return scanJob(row)
}

// Transition enforces the legal-transition table in domain.CanTransition;
// the store rejects anything else rather than trusting the caller (§4.4).
func (r *JobRepository) Transition(ctx context.Context, id string, newStatus domain.JobStatus, errMsg *string) error {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanTransition(current.Status, newStatus) {
		return domain.InvalidInput(domain.ErrIllegalTransition.Error())
	}

	var tag interface{ RowsAffected() int64 }
	var execErr error

	switch newStatus {
	case domain.JobCompleted:
		tag, execErr = r.pool.Exec(ctx, `
			UPDATE schedule_jobs SET status = $2, completed_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = $3`, id, newStatus, current.Status)
	case domain.JobFailed:
		tag, execErr = r.pool.Exec(ctx, `
			UPDATE schedule_jobs SET status = $2, error_message = $3, updated_at = NOW()
			WHERE id = $1 AND status = $4`, id, newStatus, errMsg, current.Status)
	default:
		tag, execErr = r.pool.Exec(ctx, `
			UPDATE schedule_jobs SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = $3`, id, newStatus, current.Status)
	}

	if execErr != nil {
		return domain.DatabaseError("transition schedule job", execErr)
	}
	if tag.RowsAffected() == 0 {
		return domain.InvalidInput(domain.ErrIllegalTransition.Error())
	}
	return nil
}

func (r *JobRepository) FindStaleProcessing(ctx context.Context, cutoff time.Time, limit int) ([]*domain.ScheduleJob, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, staff_group_id, period_begin_date, status, error_message, created_at, updated_at, completed_at
		FROM schedule_jobs
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3`, domain.JobProcessing, cutoff, limit)
	if err != nil {
		return nil, domain.DatabaseError("find stale jobs", err)
	}
	defer rows.Close()

	var jobs []*domain.ScheduleJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func scanJob(row rowScanner) (*domain.ScheduleJob, error) {
	var j domain.ScheduleJob
	err := row.Scan(&j.ID, &j.StaffGroupID, &j.PeriodBeginDate, &j.Status, &j.ErrorMessage,
		&j.CreatedAt, &j.UpdatedAt, &j.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.ErrJobNotFound.Error())
		}
		return nil, domain.DatabaseError("scan schedule job", err)
	}
	return &j, nil
}
