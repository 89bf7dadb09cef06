package postgres

import (
	"errors"

	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftsched/workforce/internal/domain"
)

type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

// Add is idempotent at the store level (§3): a second call for the same
// (staff_id, group_id) returns the existing row rather than erroring.
func (r *MembershipRepository) Add(ctx context.Context, staffID, groupID string) (*domain.Membership, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO memberships (id, staff_id, group_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (staff_id, group_id) DO UPDATE SET staff_id = memberships.staff_id
		RETURNING id, staff_id, group_id, created_at`,
		uuid.NewString(), staffID, groupID)

	return scanMembership(row)
}

func (r *MembershipRepository) Remove(ctx context.Context, staffID, groupID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM memberships WHERE staff_id = $1 AND group_id = $2`, staffID, groupID)
	if err != nil {
		return domain.DatabaseError("remove membership", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.ErrMembershipNotFound.Error())
	}
	return nil
}

func (r *MembershipRepository) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Membership, error) {
	return r.ListByGroupIDs(ctx, []string{groupID})
}

func (r *MembershipRepository) ListByGroupIDs(ctx context.Context, groupIDs []string) ([]*domain.Membership, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, staff_id, group_id, created_at
		FROM memberships WHERE group_id = ANY($1)`, groupIDs)
	if err != nil {
		return nil, domain.DatabaseError("list memberships", err)
	}
	defer rows.Close()

	var result []*domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

func scanMembership(row rowScanner) (*domain.Membership, error) {
	var m domain.Membership
	err := row.Scan(&m.ID, &m.StaffID, &m.GroupID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.ErrMembershipNotFound.Error())
		}
		return nil, domain.DatabaseError("scan membership", err)
	}
	return &m, nil
}
