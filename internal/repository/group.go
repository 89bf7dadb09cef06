package repository

import (
	"context"

	"github.com/shiftsched/workforce/internal/domain"
)

// GroupUpdate is the merge-over-current patch shape for Group.update
// (§4.1). A nil field leaves the current value unchanged; ClearParent
// resolves the "how do I null out parent_id" ambiguity spec.md §9 flags
// as an open question — when true, ParentID is ignored and the group
// becomes a root.
type GroupUpdate struct {
	Name        *string
	ParentID    *string
	ClearParent bool
}

type GroupRepository interface {
	Create(ctx context.Context, name string, parentID *string) (*domain.Group, error)
	FindByID(ctx context.Context, id string) (*domain.Group, error)
	FindByName(ctx context.Context, name string) (*domain.Group, error)
	// FindByIDs batches a lookup across a resolved subtree so the
	// resolver issues one query for group names instead of one per
	// descendant.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error)
	List(ctx context.Context, page, pageSize int) ([]*domain.Group, int, error)
	Update(ctx context.Context, id string, patch GroupUpdate) (*domain.Group, error)
	Delete(ctx context.Context, id string) error
	// Descendants returns every group id reachable from rootID via
	// parent_id edges, excluding rootID itself, sorted by id (§4.1).
	Descendants(ctx context.Context, rootID string) ([]string, error)
}
