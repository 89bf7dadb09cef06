// Package resolver implements the hierarchical resolved-membership query
// (SPEC_FULL.md §4.2): given a root group id, it walks the group's
// descendant subtree, gathers active memberships, and returns a
// cache-aside, deterministically ordered grouping of active staff,
// grounded on the original Rust domain/services/group_service.rs
// get_resolved_members.
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shiftsched/workforce/internal/cache"
	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/metrics"
	"github.com/shiftsched/workforce/internal/repository"
)

type Resolver struct {
	groups      repository.GroupRepository
	memberships repository.MembershipRepository
	staff       repository.StaffRepository
	cache       cache.Cache
	logger      *slog.Logger
}

func New(groups repository.GroupRepository, memberships repository.MembershipRepository, staff repository.StaffRepository, c cache.Cache, logger *slog.Logger) *Resolver {
	return &Resolver{
		groups:      groups,
		memberships: memberships,
		staff:       staff,
		cache:       c,
		logger:      logger.With("component", "resolver"),
	}
}

type Result struct {
	Groups            []domain.GroupWithMembers `json:"data"`
	UniqueActiveCount int                       `json:"total"`
}

// Resolve produces (GroupWithMembers[], unique_active_count) for rootID,
// consulting the cache first and populating it on a miss.
func (r *Resolver) Resolve(ctx context.Context, rootID string) (*Result, error) {
	key := cache.ResolvedMembersKey(rootID)

	var cached Result
	if r.cache.Get(ctx, key, &cached) {
		metrics.ResolverCacheHitsTotal.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	metrics.ResolverCacheHitsTotal.WithLabelValues("miss").Inc()

	start := time.Now()
	result, err := r.resolve(ctx, rootID)
	metrics.ResolverDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, result, cache.ResolvedMembersTTL)
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, rootID string) (*Result, error) {
	root, err := r.groups.FindByID(ctx, rootID)
	if err != nil {
		return nil, err
	}

	descendantIDs, err := r.groups.Descendants(ctx, rootID)
	if err != nil {
		return nil, err
	}

	groupIDs := append([]string{root.ID}, descendantIDs...)

	memberships, err := r.memberships.ListByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return &Result{Groups: []domain.GroupWithMembers{}, UniqueActiveCount: 0}, nil
	}

	staffByGroup := make(map[string][]string, len(groupIDs))
	staffIDSet := make(map[string]struct{}, len(memberships))
	for _, m := range memberships {
		staffByGroup[m.GroupID] = append(staffByGroup[m.GroupID], m.StaffID)
		staffIDSet[m.StaffID] = struct{}{}
	}

	staffIDs := make([]string, 0, len(staffIDSet))
	for id := range staffIDSet {
		staffIDs = append(staffIDs, id)
	}

	staffRows, err := r.staff.FindByIDs(ctx, staffIDs)
	if err != nil {
		return nil, err
	}
	staffByID := make(map[string]*domain.Staff, len(staffRows))
	for _, s := range staffRows {
		if s.Status == domain.StaffActive {
			staffByID[s.ID] = s
		}
	}

	groupRows, err := r.groups.FindByIDs(ctx, descendantIDs)
	if err != nil {
		return nil, err
	}
	groupNames := make(map[string]string, len(groupIDs))
	groupNames[root.ID] = root.Name
	for _, g := range groupRows {
		groupNames[g.ID] = g.Name
	}

	groups := make([]domain.GroupWithMembers, 0, len(groupIDs))
	uniqueActive := make(map[string]struct{}, len(staffByID))

	for _, groupID := range groupIDs {
		memberIDs := staffByGroup[groupID]
		if len(memberIDs) == 0 {
			continue
		}

		members := make([]domain.Staff, 0, len(memberIDs))
		for _, staffID := range memberIDs {
			s, ok := staffByID[staffID]
			if !ok {
				continue
			}
			members = append(members, *s)
			uniqueActive[staffID] = struct{}{}
		}
		if len(members) == 0 {
			continue
		}

		sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		groups = append(groups, domain.GroupWithMembers{
			GroupID:   groupID,
			GroupName: groupNames[groupID],
			Members:   members,
		})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].GroupName < groups[j].GroupName })

	return &Result{Groups: groups, UniqueActiveCount: len(uniqueActive)}, nil
}

// Invalidate evicts the cached resolution for rootID. Mutations that
// could change any resolution (group/membership writes) invalidate the
// whole namespace instead, since a changed subgroup can affect an
// ancestor root's cached result too.
func (r *Resolver) Invalidate(ctx context.Context, rootID string) {
	r.cache.Invalidate(ctx, cache.ResolvedMembersKey(rootID))
}

func (r *Resolver) InvalidateAll(ctx context.Context) {
	r.cache.InvalidatePattern(ctx, cache.ResolvedMembersInvalidateAll())
}
