package repository

import (
	"context"

	"github.com/shiftsched/workforce/internal/domain"
)

type MembershipRepository interface {
	// Add is idempotent: re-adding (staffID, groupID) returns the
	// existing row instead of erroring (§3, S6).
	Add(ctx context.Context, staffID, groupID string) (*domain.Membership, error)
	Remove(ctx context.Context, staffID, groupID string) error
	ListByGroupID(ctx context.Context, groupID string) ([]*domain.Membership, error)
	// ListByGroupIDs batches the lookup across the resolved subtree so the
	// resolver issues one query instead of one per descendant group.
	ListByGroupIDs(ctx context.Context, groupIDs []string) ([]*domain.Membership, error)
}
