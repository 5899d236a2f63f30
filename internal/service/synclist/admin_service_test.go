package synclist

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synclist-hub/internal/domain"
	"synclist-hub/internal/testutil"
)

func newAdminService(f *testutil.Fixture) (*AdminService, *testutil.MockTaskRepo, *testutil.MockAuditRepo) {
	tasks := &testutil.MockTaskRepo{}
	audit := &testutil.MockAuditRepo{}
	svc := NewAdminService(f.SynclistRepo(), f.ContentRepo(), f.GroupRepo(), tasks, audit, slog.New(slog.DiscardHandler))
	return svc, tasks, audit
}

func adminCtx() context.Context {
	return domain.WithPrincipal(context.Background(), domain.ContextPrincipal{Name: "admin", IsAdmin: true})
}

func TestAdminService_Create(t *testing.T) {
	f := testutil.NewFixture()
	repo := f.Repository("repo")
	g := f.Group("test1_group")
	f.Namespace("ns")
	svc, tasks, audit := newAdminService(f)

	s, err := svc.Create(adminCtx(), domain.CreateSynclistRequest{
		Name:        "test_synclist",
		Repository:  repo.ID,
		Collections: []string{"ns.coll"},
		Namespaces:  []string{"ns"},
		Groups:      []domain.GroupGrant{{GroupID: g.ID, Permissions: domain.OwnerPermissions()}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyExclude, s.Policy)
	assert.Equal(t, []string{"ns.coll"}, s.Collections)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, "test1_group", s.Groups[0].GroupName)
	assert.Len(t, tasks.Created, 1)
	assert.True(t, audit.HasAction("CREATE_SYNCLIST"))

	_, err = svc.Create(adminCtx(), domain.CreateSynclistRequest{Name: "test_synclist", Repository: repo.ID})
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestAdminService_Create_NormalizesPermissions(t *testing.T) {
	f := testutil.NewFixture()
	repo := f.Repository("repo")
	g := f.Group("test1_group")
	svc, _, _ := newAdminService(f)

	s, err := svc.Create(adminCtx(), domain.CreateSynclistRequest{
		Name:       "test_synclist",
		Repository: repo.ID,
		Groups: []domain.GroupGrant{{GroupID: g.ID, Permissions: []string{
			domain.PermViewSynclist, domain.PermChangeSynclist, domain.PermViewSynclist,
		}}},
	})
	require.NoError(t, err)

	want := []string{domain.PermChangeSynclist, domain.PermViewSynclist}
	require.Len(t, s.Groups, 1)
	assert.Equal(t, want, s.Groups[0].Permissions)
	require.Len(t, f.Synclists[s.ID].Groups, 1)
	assert.Equal(t, want, f.Synclists[s.ID].Groups[0].Permissions)
}

func TestAdminService_Create_Validation(t *testing.T) {
	f := testutil.NewFixture()
	repo := f.Repository("repo")
	svc, _, _ := newAdminService(f)

	cases := []domain.CreateSynclistRequest{
		{Repository: repo.ID},
		{Name: "x"},
		{Name: "x", Repository: "missing"},
		{Name: "x", Repository: repo.ID, UpstreamRepository: ptr("missing")},
		{Name: "x", Repository: repo.ID, Namespaces: []string{"ghost"}},
		{Name: "x", Repository: repo.ID, Groups: []domain.GroupGrant{{GroupID: 77}}},
	}
	for _, req := range cases {
		_, err := svc.Create(adminCtx(), req)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr, "%+v", req)
	}
}

func TestAdminService_RequiresAdmin(t *testing.T) {
	f := testutil.NewFixture()
	repo := f.Repository("repo")
	s := f.Synclist("s", repo)
	svc, _, _ := newAdminService(f)
	ctx := as("test1")

	var denied *domain.AccessDeniedError
	_, err := svc.Create(ctx, domain.CreateSynclistRequest{Name: "y", Repository: repo.ID})
	assert.ErrorAs(t, err, &denied)
	_, _, err = svc.List(ctx, domain.PageRequest{})
	assert.ErrorAs(t, err, &denied)
	_, err = svc.Get(ctx, s.ID)
	assert.ErrorAs(t, err, &denied)
	assert.ErrorAs(t, svc.Delete(ctx, s.ID), &denied)
	assert.ErrorAs(t, svc.AuthorizeCreate(ctx), &denied)
	assert.NoError(t, svc.AuthorizeCreate(adminCtx()))
	assert.Len(t, f.Synclists, 1)
}

func TestAdminService_ListGetDelete(t *testing.T) {
	f := testutil.NewFixture()
	repo := f.Repository("repo")
	a := f.Synclist("a", repo)
	f.Synclist("b", repo)
	svc, _, audit := newAdminService(f)

	all, total, err := svc.List(adminCtx(), domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	got, err := svc.Get(adminCtx(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	require.NoError(t, svc.Delete(adminCtx(), a.ID))
	assert.True(t, audit.HasAction("DELETE_SYNCLIST"))

	var notFound *domain.NotFoundError
	assert.ErrorAs(t, svc.Delete(adminCtx(), a.ID), &notFound)
}
