package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftsched/workforce/internal/domain"
)

type AssignmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// InsertBatch writes the full assignment set inside one transaction via
// pgx's CopyFrom, so either all rows land or none do (§4.5, invariant 8).
func (r *AssignmentRepository) InsertBatch(ctx context.Context, assignments []*domain.ShiftAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.DatabaseError("begin assignment batch", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows := make([][]any, 0, len(assignments))
	for _, a := range assignments {
		id := a.ID
		if id == "" {
			id = uuid.NewString()
		}
		rows = append(rows, []any{id, a.ScheduleJobID, a.StaffID, a.Date, a.Shift})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"shift_assignments"},
		[]string{"id", "schedule_job_id", "staff_id", "date", "shift"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return domain.DatabaseError("insert assignment batch", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.DatabaseError("commit assignment batch", err)
	}
	return nil
}

func (r *AssignmentRepository) FindByJob(ctx context.Context, jobID string) ([]*domain.ShiftAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, schedule_job_id, staff_id, date, shift, created_at
		FROM shift_assignments
		WHERE schedule_job_id = $1
		ORDER BY date ASC, staff_id ASC`, jobID)
	if err != nil {
		return nil, domain.DatabaseError("find assignments by job", err)
	}
	defer rows.Close()

	var result []*domain.ShiftAssignment
	for rows.Next() {
		var a domain.ShiftAssignment
		if err := rows.Scan(&a.ID, &a.ScheduleJobID, &a.StaffID, &a.Date, &a.Shift, &a.CreatedAt); err != nil {
			return nil, domain.DatabaseError("scan assignment", err)
		}
		result = append(result, &a)
	}
	return result, nil
}
