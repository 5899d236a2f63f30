package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "synclist-hub/internal/db"
	"synclist-hub/internal/domain"
)

type testRepos struct {
	principals *PrincipalRepo
	groups     *GroupRepo
	synclists  *SynclistRepo
	content    *ContentRepo
	tasks      *TaskRepo
	audit      *AuditRepo
	apiKeys    *APIKeyRepo
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return &testRepos{
		principals: NewPrincipalRepo(writeDB),
		groups:     NewGroupRepo(writeDB),
		synclists:  NewSynclistRepo(writeDB),
		content:    NewContentRepo(writeDB),
		tasks:      NewTaskRepo(writeDB),
		audit:      NewAuditRepo(writeDB),
		apiKeys:    NewAPIKeyRepo(writeDB),
	}
}

func (r *testRepos) mustRepository(t *testing.T, name string) *domain.Repository {
	t.Helper()
	repo, err := r.content.CreateRepository(context.Background(), &domain.Repository{Name: name})
	require.NoError(t, err)
	return repo
}

func (r *testRepos) mustGroup(t *testing.T, name string) *domain.Group {
	t.Helper()
	g, err := r.groups.Create(context.Background(), &domain.Group{Name: name})
	require.NoError(t, err)
	return g
}

func (r *testRepos) mustNamespace(t *testing.T, name string) {
	t.Helper()
	_, err := r.content.CreateNamespace(context.Background(), name)
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }
