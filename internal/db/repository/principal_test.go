package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synclist-hub/internal/domain"
)

func TestPrincipalRepo_CreateAndGet(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	p, err := repos.principals.Create(ctx, &domain.Principal{Name: "test1"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "test1", p.Name)
	assert.False(t, p.IsAdmin)
	assert.False(t, p.CreatedAt.IsZero())

	byName, err := repos.principals.GetByName(ctx, "test1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	admin, err := repos.principals.Create(ctx, &domain.Principal{Name: "root", IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
}

func TestPrincipalRepo_DuplicateName(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	_, err := repos.principals.Create(ctx, &domain.Principal{Name: "dup"})
	require.NoError(t, err)

	_, err = repos.principals.Create(ctx, &domain.Principal{Name: "dup"})
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestPrincipalRepo_NotFound(t *testing.T) {
	repos := setupRepos(t)

	_, err := repos.principals.GetByID(context.Background(), 99)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestPrincipalRepo_List(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := repos.principals.Create(ctx, &domain.Principal{Name: name})
		require.NoError(t, err)
	}

	page, total, err := repos.principals.List(ctx, domain.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "a", page[0].Name)

	page, _, err = repos.principals.List(ctx, domain.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].Name)
}
