// Package usecase wires the data service and scheduling service's
// repositories and collaborators together behind the operations their
// HTTP handlers call, in the teacher's usecase-layer-between-handler-and-store
// idiom (internal/usecase/job.go, internal/usecase/schedule.go).
package usecase

import (
	"context"

	"github.com/shiftsched/workforce/internal/resolver"
)

// ResolvedMembersUsecase is the data service's sole HTTP-facing
// operation: the hierarchical resolved-membership query.
type ResolvedMembersUsecase struct {
	resolver *resolver.Resolver
}

func NewResolvedMembersUsecase(r *resolver.Resolver) *ResolvedMembersUsecase {
	return &ResolvedMembersUsecase{resolver: r}
}

func (u *ResolvedMembersUsecase) Get(ctx context.Context, groupID string) (*resolver.Result, error) {
	return u.resolver.Resolve(ctx, groupID)
}
