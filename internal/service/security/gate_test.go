package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synclist-hub/internal/domain"
	"synclist-hub/internal/testutil"
)

type gateWorld struct {
	f        *testutil.Fixture
	owner    Requester
	viewer   Requester
	outsider Requester
	admin    Requester
	synclist *domain.Synclist
	other    *domain.Synclist
}

func newGateWorld() gateWorld {
	f := testutil.NewFixture()
	test1 := f.Principal("test1", false)
	viewer := f.Principal("viewer", false)
	outsider := f.Principal("outsider", false)
	admin := f.Principal("admin", true)

	owners := f.Group("test1_group", test1)
	viewers := f.Group("viewers", viewer)
	others := f.Group("others", outsider)
	f.Group("admins", admin)

	repo := f.Repository("repo")
	s := f.Synclist("test_synclist", repo, testutil.Owner(owners), testutil.Viewer(viewers))
	other := f.Synclist("other_synclist", repo, testutil.Owner(others))

	return gateWorld{
		f:        f,
		owner:    NewRequester(*test1, f.GroupsOf(test1)),
		viewer:   NewRequester(*viewer, f.GroupsOf(viewer)),
		outsider: NewRequester(*outsider, f.GroupsOf(outsider)),
		admin:    NewRequester(*admin, f.GroupsOf(admin)),
		synclist: s,
		other:    other,
	}
}

func TestGate_List_FiltersToIntersectingGroups(t *testing.T) {
	w := newGateWorld()
	gate := NewSynclistAccessGate()
	all := []domain.Synclist{*w.other, *w.synclist}

	require.NoError(t, gate.Authorize(w.owner, OpList, nil))

	visible := gate.Filter(w.owner, all)
	require.Len(t, visible, 1)
	assert.Equal(t, w.synclist.ID, visible[0].ID)

	visible = gate.Filter(w.outsider, all)
	require.Len(t, visible, 1)
	assert.Equal(t, w.other.ID, visible[0].ID)

	// The admin flag does not widen the "my" scope.
	assert.Empty(t, gate.Filter(w.admin, all))
}

func TestGate_Filter_OrdersByID(t *testing.T) {
	f := testutil.NewFixture()
	p := f.Principal("p", false)
	g := f.Group("g", p)
	repo := f.Repository("repo")
	first := f.Synclist("first", repo, testutil.Viewer(g))
	second := f.Synclist("second", repo, testutil.Viewer(g))

	gate := NewSynclistAccessGate()
	got := gate.Filter(NewRequester(*p, f.GroupsOf(p)), []domain.Synclist{*second, *first})
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}

func TestGate_Authorize(t *testing.T) {
	w := newGateWorld()
	gate := NewSynclistAccessGate()

	tests := []struct {
		name      string
		requester Requester
		op        Operation
		target    *domain.Synclist
		wantErr   interface{}
	}{
		{"owner retrieves", w.owner, OpRetrieve, w.synclist, nil},
		{"viewer retrieves", w.viewer, OpRetrieve, w.synclist, nil},
		{"outsider retrieve hidden", w.outsider, OpRetrieve, w.synclist, &domain.NotFoundError{}},
		{"admin retrieve hidden", w.admin, OpRetrieve, w.synclist, &domain.NotFoundError{}},
		{"missing target", w.owner, OpRetrieve, nil, &domain.NotFoundError{}},
		{"owner updates", w.owner, OpUpdate, w.synclist, nil},
		{"viewer cannot update", w.viewer, OpUpdate, w.synclist, &domain.AccessDeniedError{}},
		{"outsider update hidden", w.outsider, OpUpdate, w.synclist, &domain.NotFoundError{}},
		{"owner cannot create", w.owner, OpCreate, nil, &domain.AccessDeniedError{}},
		{"admin cannot create", w.admin, OpCreate, nil, &domain.AccessDeniedError{}},
		{"owner cannot delete", w.owner, OpDelete, w.synclist, &domain.AccessDeniedError{}},
		{"admin cannot delete", w.admin, OpDelete, w.synclist, &domain.AccessDeniedError{}},
		{"unknown operation", w.owner, Operation("purge"), w.synclist, &domain.AccessDeniedError{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := gate.Authorize(tc.requester, tc.op, tc.target)
			switch want := tc.wantErr.(type) {
			case nil:
				assert.NoError(t, err)
			case *domain.NotFoundError:
				assert.ErrorAs(t, err, &want)
			case *domain.AccessDeniedError:
				assert.ErrorAs(t, err, &want)
			}
		})
	}
}

func TestGate_UnionOfGroups(t *testing.T) {
	f := testutil.NewFixture()
	p := f.Principal("multi", false)
	readers := f.Group("readers", p)
	editors := f.Group("editors", p)
	repo := f.Repository("repo")
	s := f.Synclist("shared", repo,
		testutil.Viewer(readers),
		testutil.Grant{Group: editors, Permissions: []string{domain.PermChangeSynclist}})

	gate := NewSynclistAccessGate()
	req := NewRequester(*p, f.GroupsOf(p))

	require.NoError(t, gate.Authorize(req, OpUpdate, s))
	assert.Equal(t,
		[]string{domain.PermChangeSynclist, domain.PermViewSynclist},
		gate.EffectivePermissions(req, s))
}

func TestGate_UpdateDenialNamesHeldPermissions(t *testing.T) {
	w := newGateWorld()
	gate := NewSynclistAccessGate()

	err := gate.Authorize(w.viewer, OpUpdate, w.synclist)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Contains(t, denied.Message, domain.PermViewSynclist)
	assert.NotContains(t, denied.Message, domain.PermChangeSynclist)
}

func TestGate_ChangeImpliesView(t *testing.T) {
	f := testutil.NewFixture()
	p := f.Principal("editor", false)
	g := f.Group("editors", p)
	repo := f.Repository("repo")
	s := f.Synclist("edit-only", repo, testutil.Grant{Group: g, Permissions: []string{domain.PermChangeSynclist}})

	gate := NewSynclistAccessGate()
	req := NewRequester(*p, f.GroupsOf(p))
	assert.True(t, gate.CanView(req, s))
	assert.NoError(t, gate.Authorize(req, OpRetrieve, s))
}

func TestGate_AddOnlyGrantIsInvisible(t *testing.T) {
	f := testutil.NewFixture()
	p := f.Principal("adder", false)
	g := f.Group("adders", p)
	repo := f.Repository("repo")
	s := f.Synclist("add-only", repo, testutil.Grant{Group: g, Permissions: []string{domain.PermAddSynclist}})

	gate := NewSynclistAccessGate()
	req := NewRequester(*p, f.GroupsOf(p))
	assert.False(t, gate.CanView(req, s))
	assert.Empty(t, gate.Filter(req, []domain.Synclist{*s}))
}

func TestRequester_GroupIDList(t *testing.T) {
	req := NewRequester(domain.Principal{ID: 1, Name: "p"}, []domain.Group{{ID: 9}, {ID: 3}, {ID: 5}})
	assert.Equal(t, []int64{3, 5, 9}, req.GroupIDList())
	assert.True(t, req.InGroup(5))
	assert.False(t, req.InGroup(4))
}
