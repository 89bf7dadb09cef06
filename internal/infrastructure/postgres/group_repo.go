package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/repository"
)

type GroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

func (r *GroupRepository) Create(ctx context.Context, name string, parentID *string) (*domain.Group, error) {
	query := `
		INSERT INTO groups (id, name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, name, parent_id, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, uuid.NewString(), name, parentID)
	g, err := scanGroup(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.InvalidInput(domain.ErrGroupNameTaken.Error())
		}
		return nil, domain.DatabaseError("create group", err)
	}
	return g, nil
}

func (r *GroupRepository) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM groups WHERE id = $1`, id)
	return scanGroup(row)
}

func (r *GroupRepository) FindByName(ctx context.Context, name string) (*domain.Group, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM groups WHERE name = $1`, name)
	return scanGroup(row)
}

func (r *GroupRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM groups WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, domain.DatabaseError("find groups by ids", err)
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (r *GroupRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Group, int, error) {
	if pageSize > 500 {
		pageSize = 500
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM groups ORDER BY created_at DESC LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		return nil, 0, domain.DatabaseError("list groups", err)
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, domain.DatabaseError("count groups", err)
	}

	return groups, total, nil
}

func (r *GroupRepository) Update(ctx context.Context, id string, patch repository.GroupUpdate) (*domain.Group, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if patch.Name != nil {
		name = *patch.Name
	}

	var newParent *string
	switch {
	case patch.ClearParent:
		newParent = nil
	case patch.ParentID != nil:
		newParent = patch.ParentID
	default:
		newParent = current.ParentID
	}

	if newParent != nil {
		if err := r.rejectCycle(ctx, id, *newParent); err != nil {
			return nil, err
		}
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE groups SET name = $1, parent_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, parent_id, created_at, updated_at`,
		name, newParent, id)

	g, err := scanGroup(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.InvalidInput(domain.ErrGroupNameTaken.Error())
		}
		return nil, domain.DatabaseError("update group", err)
	}
	return g, nil
}

// rejectCycle walks ancestors of proposedParent; if groupID appears among
// them (or proposedParent == groupID) the update would close a cycle.
func (r *GroupRepository) rejectCycle(ctx context.Context, groupID, proposedParent string) error {
	if proposedParent == groupID {
		return domain.InvalidInput(domain.ErrCycleDetected.Error())
	}

	current := proposedParent
	for {
		var parent *string
		err := r.pool.QueryRow(ctx, `SELECT parent_id FROM groups WHERE id = $1`, current).Scan(&parent)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotFound(domain.ErrGroupNotFound.Error())
		}
		if err != nil {
			return domain.DatabaseError("walk ancestors", err)
		}
		if parent == nil {
			return nil
		}
		if *parent == groupID {
			return domain.InvalidInput(domain.ErrCycleDetected.Error())
		}
		current = *parent
	}
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	var childCount int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM groups WHERE parent_id = $1`, id).Scan(&childCount); err != nil {
		return domain.DatabaseError("count children", err)
	}
	if childCount > 0 {
		return domain.InvalidInput(domain.ErrGroupHasChildren.Error())
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return domain.DatabaseError("delete group", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.ErrGroupNotFound.Error())
	}
	return nil
}

// Descendants runs the recursive CTE grounded in the original data
// service's get_descendant_ids query, translated to pgx's Query+Scan
// idiom. Deterministic: sorted by id (§4.1).
func (r *GroupRepository) Descendants(ctx context.Context, rootID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		WITH RECURSIVE descendants AS (
			SELECT id FROM groups WHERE id = $1
			UNION
			SELECT g.id FROM groups g
			INNER JOIN descendants d ON g.parent_id = d.id
		)
		SELECT id FROM descendants WHERE id != $1 ORDER BY id`, rootID)
	if err != nil {
		return nil, domain.DatabaseError("descendants", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.DatabaseError("scan descendant", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*domain.Group, error) {
	var g domain.Group
	err := row.Scan(&g.ID, &g.Name, &g.ParentID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.ErrGroupNotFound.Error())
		}
		return nil, domain.DatabaseError("scan group", fmt.Errorf("%w", err))
	}
	return &g, nil
}
