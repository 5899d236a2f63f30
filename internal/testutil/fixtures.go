package testutil

import (
	"context"
	"sort"
	"time"

	"synclist-hub/internal/domain"
)

// Fixture is an in-memory principal/group/synclist graph. Its Repo methods
// return mocks whose functions read and write the graph, so service tests
// observe their own updates.
type Fixture struct {
	Principals   map[string]*domain.Principal
	Groups       map[string]*domain.Group
	Repositories map[string]*domain.Repository
	Namespaces   map[string]bool
	Synclists    map[int64]*domain.Synclist

	members map[int64]map[int64]bool // principal id -> group ids
	nextID  int64
	clock   time.Time
}

// NewFixture returns an empty Fixture.
func NewFixture() *Fixture {
	return &Fixture{
		Principals:   map[string]*domain.Principal{},
		Groups:       map[string]*domain.Group{},
		Repositories: map[string]*domain.Repository{},
		Namespaces:   map[string]bool{},
		Synclists:    map[int64]*domain.Synclist{},
		members:      map[int64]map[int64]bool{},
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *Fixture) id() int64 {
	f.nextID++
	return f.nextID
}

// Principal adds a principal.
func (f *Fixture) Principal(name string, isAdmin bool) *domain.Principal {
	p := &domain.Principal{ID: f.id(), Name: name, IsAdmin: isAdmin, CreatedAt: f.clock}
	f.Principals[name] = p
	return p
}

// Group adds a group with the given members.
func (f *Fixture) Group(name string, members ...*domain.Principal) *domain.Group {
	g := &domain.Group{ID: f.id(), Name: name, CreatedAt: f.clock}
	f.Groups[name] = g
	for _, p := range members {
		f.AddMember(g, p)
	}
	return g
}

// AddMember puts p into g.
func (f *Fixture) AddMember(g *domain.Group, p *domain.Principal) {
	if f.members[p.ID] == nil {
		f.members[p.ID] = map[int64]bool{}
	}
	f.members[p.ID][g.ID] = true
}

// Repository adds a content repository whose ID is "<name>-id".
func (f *Fixture) Repository(name string) *domain.Repository {
	r := &domain.Repository{ID: name + "-id", Name: name, CreatedAt: f.clock}
	f.Repositories[r.ID] = r
	return r
}

// Namespace adds namespaces.
func (f *Fixture) Namespace(names ...string) {
	for _, n := range names {
		f.Namespaces[n] = true
	}
}

// Grant pairs a group with the permissions it holds on a synclist.
type Grant struct {
	Group       *domain.Group
	Permissions []string
}

// Owner grants the full owner bundle to g.
func Owner(g *domain.Group) Grant {
	return Grant{Group: g, Permissions: domain.OwnerPermissions()}
}

// Viewer grants only view to g.
func Viewer(g *domain.Group) Grant {
	return Grant{Group: g, Permissions: []string{domain.PermViewSynclist}}
}

// Synclist adds an exclude-policy synclist on repo with empty lists and the
// given grants.
func (f *Fixture) Synclist(name string, repo *domain.Repository, grants ...Grant) *domain.Synclist {
	s := &domain.Synclist{
		ID:          f.id(),
		Name:        name,
		Repository:  repo.ID,
		Policy:      domain.PolicyExclude,
		Collections: []string{},
		Namespaces:  []string{},
		Groups:      []domain.GroupPermissions{},
		CreatedAt:   f.clock,
		UpdatedAt:   f.clock,
	}
	for _, gr := range grants {
		s.Groups = append(s.Groups, domain.GroupPermissions{
			GroupID:     gr.Group.ID,
			GroupName:   gr.Group.Name,
			Permissions: domain.NormalizePermissions(gr.Permissions),
		})
	}
	f.Synclists[s.ID] = s
	return s
}

// GroupsOf returns p's groups ordered by ID.
func (f *Fixture) GroupsOf(p *domain.Principal) []domain.Group {
	var out []domain.Group
	for _, g := range f.Groups {
		if f.members[p.ID][g.ID] {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *Fixture) groupByID(id int64) *domain.Group {
	for _, g := range f.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (f *Fixture) copySynclist(s *domain.Synclist) *domain.Synclist {
	out := *s
	out.Collections = append([]string{}, s.Collections...)
	out.Namespaces = append([]string{}, s.Namespaces...)
	out.Groups = make([]domain.GroupPermissions, 0, len(s.Groups))
	for _, g := range s.Groups {
		g.Permissions = append([]string{}, g.Permissions...)
		out.Groups = append(out.Groups, g)
	}
	return &out
}

// PrincipalRepo returns a principal repository backed by the fixture.
func (f *Fixture) PrincipalRepo() *MockPrincipalRepo {
	return &MockPrincipalRepo{
		GetByNameFn: func(_ context.Context, name string) (*domain.Principal, error) {
			if p, ok := f.Principals[name]; ok {
				cp := *p
				return &cp, nil
			}
			return nil, domain.ErrNotFound("principal %q not found", name)
		},
		GetByIDFn: func(_ context.Context, id int64) (*domain.Principal, error) {
			for _, p := range f.Principals {
				if p.ID == id {
					cp := *p
					return &cp, nil
				}
			}
			return nil, domain.ErrNotFound("principal %d not found", id)
		},
	}
}

// GroupRepo returns a group repository backed by the fixture.
func (f *Fixture) GroupRepo() *MockGroupRepo {
	return &MockGroupRepo{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Group, error) {
			if g := f.groupByID(id); g != nil {
				cp := *g
				return &cp, nil
			}
			return nil, domain.ErrNotFound("group %d not found", id)
		},
		GroupsForPrincipalFn: func(_ context.Context, principalID int64) ([]domain.Group, error) {
			for _, p := range f.Principals {
				if p.ID == principalID {
					return f.GroupsOf(p), nil
				}
			}
			return nil, nil
		},
	}
}

// SynclistRepo returns a synclist repository backed by the fixture. Update
// resolves group names the way the SQL repository does.
func (f *Fixture) SynclistRepo() *MockSynclistRepo {
	return &MockSynclistRepo{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Synclist, error) {
			if s, ok := f.Synclists[id]; ok {
				return f.copySynclist(s), nil
			}
			return nil, domain.ErrNotFound("synclist %d not found", id)
		},
		ListFn: func(_ context.Context, page domain.PageRequest) ([]domain.Synclist, int64, error) {
			all := f.sortedSynclists(func(*domain.Synclist) bool { return true })
			return domain.Paginate(all, page), int64(len(all)), nil
		},
		ListForGroupsFn: func(_ context.Context, groupIDs []int64) ([]domain.Synclist, error) {
			want := map[int64]bool{}
			for _, id := range groupIDs {
				want[id] = true
			}
			return f.sortedSynclists(func(s *domain.Synclist) bool {
				for _, g := range s.Groups {
					if want[g.GroupID] {
						return true
					}
				}
				return false
			}), nil
		},
		CreateFn: func(_ context.Context, s *domain.Synclist) (*domain.Synclist, error) {
			for _, existing := range f.Synclists {
				if existing.Name == s.Name {
					return nil, domain.ErrConflict("synclist %q already exists", s.Name)
				}
			}
			stored := f.copySynclist(s)
			stored.ID = f.id()
			stored.CreatedAt, stored.UpdatedAt = f.clock, f.clock
			f.store(stored)
			return f.copySynclist(stored), nil
		},
		UpdateFn: func(_ context.Context, s *domain.Synclist) (*domain.Synclist, error) {
			if _, ok := f.Synclists[s.ID]; !ok {
				return nil, domain.ErrNotFound("synclist %d not found", s.ID)
			}
			stored := f.copySynclist(s)
			stored.UpdatedAt = f.clock.Add(time.Minute)
			f.store(stored)
			return f.copySynclist(stored), nil
		},
		DeleteFn: func(_ context.Context, id int64) error {
			if _, ok := f.Synclists[id]; !ok {
				return domain.ErrNotFound("synclist %d not found", id)
			}
			delete(f.Synclists, id)
			return nil
		},
	}
}

// store normalizes s the way the SQL repository does and saves it.
func (f *Fixture) store(s *domain.Synclist) {
	s.Namespaces = domain.NormalizeNamespaces(s.Namespaces)
	groups := make([]domain.GroupPermissions, 0, len(s.Groups))
	for _, g := range s.Groups {
		if len(g.Permissions) == 0 {
			continue
		}
		if grp := f.groupByID(g.GroupID); grp != nil {
			g.GroupName = grp.Name
		}
		g.Permissions = domain.NormalizePermissions(g.Permissions)
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].GroupID < groups[j].GroupID })
	s.Groups = groups
	if s.Collections == nil {
		s.Collections = []string{}
	}
	f.Synclists[s.ID] = s
}

func (f *Fixture) sortedSynclists(keep func(*domain.Synclist) bool) []domain.Synclist {
	out := []domain.Synclist{}
	for _, s := range f.Synclists {
		if keep(s) {
			out = append(out, *f.copySynclist(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ContentRepo returns a content repository backed by the fixture.
func (f *Fixture) ContentRepo() *MockContentRepo {
	return &MockContentRepo{
		GetRepositoryFn: func(_ context.Context, id string) (*domain.Repository, error) {
			if r, ok := f.Repositories[id]; ok {
				cp := *r
				return &cp, nil
			}
			return nil, domain.ErrNotFound("repository %q not found", id)
		},
		MissingNamespacesFn: func(_ context.Context, names []string) ([]string, error) {
			var missing []string
			for _, n := range domain.NormalizeNamespaces(names) {
				if !f.Namespaces[n] {
					missing = append(missing, n)
				}
			}
			return missing, nil
		},
	}
}
