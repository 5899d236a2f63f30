package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	internaldb "synclist-hub/internal/db"
	"synclist-hub/internal/db/repository"
	"synclist-hub/internal/domain"
	"synclist-hub/internal/middleware"
	"synclist-hub/internal/service/security"
	"synclist-hub/internal/service/synclist"
	"synclist-hub/internal/service/task"
)

const testJWTSecret = "api-test-secret"

// testEnv is a fully wired server over a temp SQLite metastore, seeded with:
//
//	admin (admin)
//	test1  in test1_group owning test_synclist on repo "repo"
//	test2  in other_group owning other_synclist
//	viewer in viewer_group with view-only access to test_synclist
type testEnv struct {
	srv    *httptest.Server
	router http.Handler

	principals *repository.PrincipalRepo
	groups     *repository.GroupRepo
	synclists  *repository.SynclistRepo
	content    *repository.ContentRepo
	tasks      *repository.TaskRepo

	repoID        string
	test1Group    *domain.Group
	otherGroup    *domain.Group
	testSynclist  *domain.Synclist
	otherSynclist *domain.Synclist
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.DiscardHandler)

	env := &testEnv{
		principals: repository.NewPrincipalRepo(writeDB),
		groups:     repository.NewGroupRepo(writeDB),
		synclists:  repository.NewSynclistRepo(writeDB),
		content:    repository.NewContentRepo(writeDB),
		tasks:      repository.NewTaskRepo(writeDB),
	}
	auditRepo := repository.NewAuditRepo(writeDB)

	repo, err := env.content.CreateRepository(ctx, &domain.Repository{Name: "repo"})
	require.NoError(t, err)
	env.repoID = repo.ID
	_, err = env.content.CreateNamespace(ctx, "unittestnamespace1")
	require.NoError(t, err)

	_, err = env.principals.Create(ctx, &domain.Principal{Name: "admin", IsAdmin: true})
	require.NoError(t, err)
	env.test1Group = env.mustMember(t, "test1", "test1_group")
	env.otherGroup = env.mustMember(t, "test2", "other_group")
	viewerGroup := env.mustMember(t, "viewer", "viewer_group")

	env.testSynclist = env.mustSynclist(t, "test_synclist",
		domain.GroupPermissions{GroupID: env.test1Group.ID, Permissions: domain.OwnerPermissions()},
		domain.GroupPermissions{GroupID: viewerGroup.ID, Permissions: []string{domain.PermViewSynclist}},
	)
	env.otherSynclist = env.mustSynclist(t, "other_synclist",
		domain.GroupPermissions{GroupID: env.otherGroup.ID, Permissions: domain.OwnerPermissions()},
	)

	resolver := security.NewRequesterResolver(env.principals, env.groups)
	my := synclist.NewMyService(resolver, security.NewSynclistAccessGate(),
		env.synclists, env.content, env.groups, env.tasks, auditRepo, logger)
	admin := synclist.NewAdminService(env.synclists, env.content, env.groups, env.tasks, auditRepo, logger)
	tasks := task.NewService(resolver, env.tasks)

	validator, err := middleware.NewHS256Validator(testJWTSecret)
	require.NoError(t, err)
	authn := middleware.NewAuthenticator(middleware.AuthConfig{
		Validator: validator,
		APIKeys:   repository.NewAPIKeyRepo(readDB),
		HashKey:   security.HashAPIKey,
	}, repository.NewPrincipalRepo(readDB), logger)

	routerCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	env.router = NewRouter(routerCtx, RouterConfig{
		Handler:        NewHandler(my, admin, tasks, logger),
		Auth:           authn.Middleware,
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})
	env.srv = httptest.NewServer(env.router)
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) mustMember(t *testing.T, principal, group string) *domain.Group {
	t.Helper()
	ctx := context.Background()
	p, err := e.principals.Create(ctx, &domain.Principal{Name: principal})
	require.NoError(t, err)
	g, err := e.groups.Create(ctx, &domain.Group{Name: group})
	require.NoError(t, err)
	require.NoError(t, e.groups.AddMember(ctx, g.ID, p.ID))
	return g
}

func (e *testEnv) mustSynclist(t *testing.T, name string, groups ...domain.GroupPermissions) *domain.Synclist {
	t.Helper()
	s, err := e.synclists.Create(context.Background(), &domain.Synclist{
		Name:       name,
		Repository: e.repoID,
		Policy:     domain.PolicyExclude,
		Groups:     groups,
	})
	require.NoError(t, err)
	return s
}

// do sends a request as principal (no credentials when principal is empty)
// and returns the status code and body.
func (e *testEnv) do(t *testing.T, method, path, principal string, body any) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, e.srv.URL+path, rdr)
	require.NoError(t, err)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != "" {
		token, err := middleware.IssueHS256Token(testJWTSecret, principal, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeBody[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), "body: %s", raw)
	return v
}

func mustField(t *testing.T, raw []byte, key string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	v, ok := fields[key]
	require.Truef(t, ok, "field %q missing in %s", key, raw)
	return v
}
