package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synclist-hub/internal/domain"
)

func TestGroupRepo_CreateAndGet(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	g := repos.mustGroup(t, "test1_group")
	assert.NotZero(t, g.ID)
	assert.False(t, g.CreatedAt.IsZero())

	found, err := repos.groups.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "test1_group", found.Name)

	found, err = repos.groups.GetByName(ctx, "test1_group")
	require.NoError(t, err)
	assert.Equal(t, g.ID, found.ID)
}

func TestGroupRepo_GetByName_NotFound(t *testing.T) {
	repos := setupRepos(t)

	_, err := repos.groups.GetByName(context.Background(), "nonexistent")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestGroupRepo_Membership(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	p, err := repos.principals.Create(ctx, &domain.Principal{Name: "test1"})
	require.NoError(t, err)
	first := repos.mustGroup(t, "first")
	second := repos.mustGroup(t, "second")
	repos.mustGroup(t, "unrelated")

	require.NoError(t, repos.groups.AddMember(ctx, second.ID, p.ID))
	require.NoError(t, repos.groups.AddMember(ctx, first.ID, p.ID))
	// Adding twice is a no-op.
	require.NoError(t, repos.groups.AddMember(ctx, first.ID, p.ID))

	groups, err := repos.groups.GroupsForPrincipal(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, first.ID, groups[0].ID)
	assert.Equal(t, second.ID, groups[1].ID)

	require.NoError(t, repos.groups.RemoveMember(ctx, first.ID, p.ID))
	groups, err = repos.groups.GroupsForPrincipal(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "second", groups[0].Name)
}

func TestGroupRepo_GroupsForPrincipal_None(t *testing.T) {
	repos := setupRepos(t)

	groups, err := repos.groups.GroupsForPrincipal(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
