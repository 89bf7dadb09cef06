package resolver

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/shiftsched/workforce/internal/cache"
	"github.com/shiftsched/workforce/internal/domain"
	"github.com/shiftsched/workforce/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeGroupRepo struct {
	groups      map[string]*domain.Group
	descendants map[string][]string
}

func (f *fakeGroupRepo) Create(ctx context.Context, name string, parentID *string) (*domain.Group, error) {
	return nil, nil
}
func (f *fakeGroupRepo) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, domain.NotFound(domain.ErrGroupNotFound.Error())
	}
	return g, nil
}
func (f *fakeGroupRepo) FindByName(ctx context.Context, name string) (*domain.Group, error) {
	return nil, nil
}
func (f *fakeGroupRepo) FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	out := make([]*domain.Group, 0, len(ids))
	for _, id := range ids {
		if g, ok := f.groups[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}
func (f *fakeGroupRepo) List(ctx context.Context, page, pageSize int) ([]*domain.Group, int, error) {
	return nil, 0, nil
}
func (f *fakeGroupRepo) Update(ctx context.Context, id string, patch repository.GroupUpdate) (*domain.Group, error) {
	return nil, nil
}
func (f *fakeGroupRepo) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeGroupRepo) Descendants(ctx context.Context, rootID string) ([]string, error) {
	return f.descendants[rootID], nil
}

type fakeMembershipRepo struct {
	byGroup map[string][]*domain.Membership
}

func (f *fakeMembershipRepo) Add(ctx context.Context, staffID, groupID string) (*domain.Membership, error) {
	return nil, nil
}
func (f *fakeMembershipRepo) Remove(ctx context.Context, staffID, groupID string) error { return nil }
func (f *fakeMembershipRepo) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Membership, error) {
	return f.byGroup[groupID], nil
}
func (f *fakeMembershipRepo) ListByGroupIDs(ctx context.Context, groupIDs []string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, id := range groupIDs {
		out = append(out, f.byGroup[id]...)
	}
	return out, nil
}

type fakeStaffRepo struct {
	staff map[string]*domain.Staff
}

func (f *fakeStaffRepo) Create(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	return nil, nil
}
func (f *fakeStaffRepo) FindByID(ctx context.Context, id string) (*domain.Staff, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, domain.NotFound(domain.ErrStaffNotFound.Error())
	}
	return s, nil
}
func (f *fakeStaffRepo) FindByIDs(ctx context.Context, ids []string) ([]*domain.Staff, error) {
	out := make([]*domain.Staff, 0, len(ids))
	for _, id := range ids {
		if s, ok := f.staff[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeStaffRepo) Update(ctx context.Context, id string, patch repository.StaffUpdate) (*domain.Staff, error) {
	return nil, nil
}
func (f *fakeStaffRepo) Delete(ctx context.Context, id string) error { return nil }

// buildScenario constructs a root group "HQ" with one child group "Floor"
// and a mix of active/inactive staff shared across both groups,
// mirroring spec.md's hierarchical resolution scenario (S4).
func buildScenario() (*fakeGroupRepo, *fakeMembershipRepo, *fakeStaffRepo) {
	groups := &fakeGroupRepo{
		groups: map[string]*domain.Group{
			"hq":    {ID: "hq", Name: "HQ"},
			"floor": {ID: "floor", Name: "Floor"},
		},
		descendants: map[string][]string{"hq": {"floor"}},
	}

	memberships := &fakeMembershipRepo{
		byGroup: map[string][]*domain.Membership{
			"hq":    {{StaffID: "alice", GroupID: "hq"}, {StaffID: "carol", GroupID: "hq"}},
			"floor": {{StaffID: "bob", GroupID: "floor"}, {StaffID: "alice", GroupID: "floor"}},
		},
	}

	staff := &fakeStaffRepo{
		staff: map[string]*domain.Staff{
			"alice": {ID: "alice", Name: "Alice", Status: domain.StaffActive},
			"bob":   {ID: "bob", Name: "Bob", Status: domain.StaffActive},
			"carol": {ID: "carol", Name: "Carol", Status: domain.StaffInactive},
		},
	}

	return groups, memberships, staff
}

func TestResolve_WalksHierarchyAndFiltersInactive(t *testing.T) {
	groups, memberships, staff := buildScenario()
	r := New(groups, memberships, staff, cache.NewMemoryCache(), discardLogger())

	result, err := r.Resolve(context.Background(), "hq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.UniqueActiveCount != 2 {
		t.Fatalf("unique active count = %d, want 2 (alice, bob; carol is inactive)", result.UniqueActiveCount)
	}
	if len(result.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(result.Groups))
	}

	names := make([]string, len(result.Groups))
	for i, g := range result.Groups {
		names[i] = g.GroupName
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("groups not sorted by name: %v", names)
	}

	for _, g := range result.Groups {
		if g.GroupID == "hq" {
			if len(g.Members) != 1 || g.Members[0].Name != "Alice" {
				t.Fatalf("HQ members = %+v, want only Alice (Carol is inactive)", g.Members)
			}
		}
		if g.GroupID == "floor" {
			if len(g.Members) != 2 || g.Members[0].Name != "Alice" || g.Members[1].Name != "Bob" {
				t.Fatalf("Floor members = %+v, want [Alice, Bob] sorted by name", g.Members)
			}
		}
	}
}

func TestResolve_CachesResultAndServesFromCacheOnSecondCall(t *testing.T) {
	groups, memberships, staff := buildScenario()
	c := cache.NewMemoryCache()
	r := New(groups, memberships, staff, c, discardLogger())

	first, err := r.Resolve(context.Background(), "hq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutate the backing store directly; a cached Resolve should not see it.
	groups.groups["hq"].Name = "Changed"

	second, err := r.Resolve(context.Background(), "hq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.UniqueActiveCount != first.UniqueActiveCount {
		t.Fatalf("second resolve = %+v, want cached result matching first %+v", second, first)
	}
	for _, g := range second.Groups {
		if g.GroupID == "hq" && g.GroupName != "HQ" {
			t.Fatalf("second resolve HQ name = %q, want cached %q", g.GroupName, "HQ")
		}
	}
}

func TestResolve_InvalidateForcesRecomputation(t *testing.T) {
	groups, memberships, staff := buildScenario()
	c := cache.NewMemoryCache()
	r := New(groups, memberships, staff, c, discardLogger())

	if _, err := r.Resolve(context.Background(), "hq"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	staff.staff["carol"].Status = domain.StaffActive
	r.Invalidate(context.Background(), "hq")

	result, err := r.Resolve(context.Background(), "hq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UniqueActiveCount != 3 {
		t.Fatalf("unique active count after invalidation = %d, want 3", result.UniqueActiveCount)
	}
}

func TestResolve_UnknownRootReturnsNotFound(t *testing.T) {
	groups, memberships, staff := buildScenario()
	r := New(groups, memberships, staff, cache.NewMemoryCache(), discardLogger())

	_, err := r.Resolve(context.Background(), "does-not-exist")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}
