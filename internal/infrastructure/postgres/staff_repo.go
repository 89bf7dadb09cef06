package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/repository"
)

type StaffRepository struct {
	pool *pgxpool.Pool
}

func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

func (r *StaffRepository) Create(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	if s.Status == "" {
		s.Status = domain.StaffActive
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO staff (id, name, email, position, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, name, email, position, status, created_at, updated_at`,
		s.ID, s.Name, s.Email, s.Position, s.Status)

	created, err := scanStaff(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.InvalidInput(domain.ErrEmailTaken.Error())
		}
		return nil, domain.DatabaseError("create staff", err)
	}
	return created, nil
}

func (r *StaffRepository) FindByID(ctx context.Context, id string) (*domain.Staff, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, position, status, created_at, updated_at
		FROM staff WHERE id = $1`, id)
	return scanStaff(row)
}

func (r *StaffRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Staff, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, position, status, created_at, updated_at
		FROM staff WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, domain.DatabaseError("find staff by ids", err)
	}
	defer rows.Close()

	var result []*domain.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

func (r *StaffRepository) Update(ctx context.Context, id string, patch repository.StaffUpdate) (*domain.Staff, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, email, position, status := current.Name, current.Email, current.Position, current.Status
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Position != nil {
		position = *patch.Position
	}
	if patch.Status != nil {
		status = *patch.Status
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE staff SET name = $1, email = $2, position = $3, status = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, name, email, position, status, created_at, updated_at`,
		name, email, position, status, id)

	updated, err := scanStaff(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.InvalidInput(domain.ErrEmailTaken.Error())
		}
		return nil, domain.DatabaseError("update staff", err)
	}
	return updated, nil
}

func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return domain.DatabaseError("delete staff", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.ErrStaffNotFound.Error())
	}
	return nil
}

func scanStaff(row rowScanner) (*domain.Staff, error) {
	var s domain.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Position, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.ErrStaffNotFound.Error())
		}
		return nil, domain.DatabaseError("scan staff", err)
	}
	return &s, nil
}
