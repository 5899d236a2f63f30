package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synclist-hub/internal/domain"
)

func TestSynclistRepo_CreateAndGet(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	repo := repos.mustRepository(t, "repo")
	upstream := repos.mustRepository(t, "upstream")
	group := repos.mustGroup(t, "test1_group")
	repos.mustNamespace(t, "beta")
	repos.mustNamespace(t, "alpha")

	s, err := repos.synclists.Create(ctx, &domain.Synclist{
		Name:               "test_synclist",
		Repository:         repo.ID,
		UpstreamRepository: &upstream.ID,
		Policy:             domain.PolicyExclude,
		Collections:        []string{"beta.two", "alpha.one"},
		Namespaces:         []string{"beta", "alpha", "beta"},
		Groups: []domain.GroupPermissions{
			{GroupID: group.ID, Permissions: domain.OwnerPermissions()},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, s.ID)
	assert.Equal(t, "test_synclist", s.Name)
	assert.Equal(t, repo.ID, s.Repository)
	require.NotNil(t, s.UpstreamRepository)
	assert.Equal(t, upstream.ID, *s.UpstreamRepository)
	assert.Equal(t, domain.PolicyExclude, s.Policy)
	// Collections keep their order; namespaces come back as a sorted set.
	assert.Equal(t, []string{"beta.two", "alpha.one"}, s.Collections)
	assert.Equal(t, []string{"alpha", "beta"}, s.Namespaces)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, group.ID, s.Groups[0].GroupID)
	assert.Equal(t, "test1_group", s.Groups[0].GroupName)
	assert.ElementsMatch(t, domain.OwnerPermissions(), s.Groups[0].Permissions)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestSynclistRepo_EmptyLists(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	repo := repos.mustRepository(t, "repo")
	s, err := repos.synclists.Create(ctx, &domain.Synclist{
		Name:       "bare",
		Repository: repo.ID,
		Policy:     domain.PolicyExclude,
	})
	require.NoError(t, err)
	assert.NotNil(t, s.Collections)
	assert.NotNil(t, s.Namespaces)
	assert.NotNil(t, s.Groups)
	assert.Empty(t, s.Collections)
	assert.Empty(t, s.Namespaces)
	assert.Empty(t, s.Groups)
	assert.Nil(t, s.UpstreamRepository)
}

func TestSynclistRepo_DuplicateName(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	repo := repos.mustRepository(t, "repo")
	_, err := repos.synclists.Create(ctx, &domain.Synclist{Name: "dup", Repository: repo.ID, Policy: domain.PolicyExclude})
	require.NoError(t, err)

	_, err = repos.synclists.Create(ctx, &domain.Synclist{Name: "dup", Repository: repo.ID, Policy: domain.PolicyExclude})
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestSynclistRepo_Update(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	repo := repos.mustRepository(t, "repo")
	owners := repos.mustGroup(t, "owners")
	viewers := repos.mustGroup(t, "viewers")
	repos.mustNamespace(t, "unittestnamespace1")

	s, err := repos.synclists.Create(ctx, &domain.Synclist{
		Name:       "test_synclist",
		Repository: repo.ID,
		Policy:     domain.PolicyExclude,
		Groups:     []domain.GroupPermissions{{GroupID: owners.ID, Permissions: domain.OwnerPermissions()}},
	})
	require.NoError(t, err)

	s.Policy = domain.PolicyInclude
	s.Namespaces = []string{"unittestnamespace1"}
	s.Collections = []string{"unittestnamespace1.collection"}
	s.Groups = []domain.GroupPermissions{
		{GroupID: owners.ID, Permissions: domain.OwnerPermissions()},
		{GroupID: viewers.ID, Permissions: []string{domain.PermViewSynclist}},
	}
	updated, err := repos.synclists.Update(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyInclude, updated.Policy)
	assert.Equal(t, []string{"unittestnamespace1"}, updated.Namespaces)
	assert.Equal(t, []string{"unittestnamespace1.collection"}, updated.Collections)
	require.Len(t, updated.Groups, 2)
	assert.Equal(t, []string{domain.PermViewSynclist}, updated.Groups[1].Permissions)

	got, err := repos.synclists.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Policy, got.Policy)
	assert.Equal(t, updated.Namespaces, got.Namespaces)
	assert.Equal(t, updated.Groups, got.Groups)

	// Replacing the bundle drops groups that are not listed.
	got.Groups = []domain.GroupPermissions{{GroupID: viewers.ID, Permissions: []string{domain.PermViewSynclist}}}
	got.Namespaces = nil
	updated, err = repos.synclists.Update(ctx, got)
	require.NoError(t, err)
	require.Len(t, updated.Groups, 1)
	assert.Equal(t, viewers.ID, updated.Groups[0].GroupID)
	assert.Empty(t, updated.Namespaces)
}

func TestSynclistRepo_UpdateMissing(t *testing.T) {
	repos := setupRepos(t)
	repo := repos.mustRepository(t, "repo")

	_, err := repos.synclists.Update(context.Background(), &domain.Synclist{ID: 404, Repository: repo.ID, Policy: domain.PolicyExclude})
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSynclistRepo_ListForGroups(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	repo := repos.mustRepository(t, "repo")
	a := repos.mustGroup(t, "a")
	b := repos.mustGroup(t, "b")
	c := repos.mustGroup(t, "c")

	create := func(name string, groups ...domain.GroupPermissions) *domain.Synclist {
		s, err := repos.synclists.Create(ctx, &domain.Synclist{
			Name: name, Repository: repo.ID, Policy: domain.PolicyExclude, Groups: groups,
		})
		require.NoError(t, err)
		return s
	}
	view := []string{domain.PermViewSynclist}
	first := create("first", domain.GroupPermissions{GroupID: a.ID, Permissions: view})
	second := create("second",
		domain.GroupPermissions{GroupID: a.ID, Permissions: view},
		domain.GroupPermissions{GroupID: b.ID, Permissions: view})
	create("third", domain.GroupPermissions{GroupID: c.ID, Permissions: view})

	got, err := repos.synclists.ListForGroups(ctx, []int64{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)

	got, err = repos.synclists.ListForGroups(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	all, total, err := repos.synclists.List(ctx, domain.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 2)
}

func TestSynclistRepo_Delete(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	repo := repos.mustRepository(t, "repo")
	g := repos.mustGroup(t, "g")
	s, err := repos.synclists.Create(ctx, &domain.Synclist{
		Name: "gone", Repository: repo.ID, Policy: domain.PolicyExclude,
		Groups: []domain.GroupPermissions{{GroupID: g.ID, Permissions: domain.OwnerPermissions()}},
	})
	require.NoError(t, err)

	require.NoError(t, repos.synclists.Delete(ctx, s.ID))

	_, err = repos.synclists.GetByID(ctx, s.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	got, err := repos.synclists.ListForGroups(ctx, []int64{g.ID})
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.ErrorAs(t, repos.synclists.Delete(ctx, s.ID), &notFound)
}
