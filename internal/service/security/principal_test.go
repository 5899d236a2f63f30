package security

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "synclist-hub/internal/db"
	"synclist-hub/internal/db/repository"
	"synclist-hub/internal/domain"
)

type securityServices struct {
	principals *PrincipalService
	groups     *GroupService
	apiKeys    *APIKeyService
	apiKeyRepo *repository.APIKeyRepo
	resolver   *RequesterResolver
}

func setupSecurityServices(t *testing.T) securityServices {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	principalRepo := repository.NewPrincipalRepo(db)
	groupRepo := repository.NewGroupRepo(db)
	apiKeyRepo := repository.NewAPIKeyRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	return securityServices{
		principals: NewPrincipalService(principalRepo, auditRepo),
		groups:     NewGroupService(groupRepo, auditRepo),
		apiKeys:    NewAPIKeyService(apiKeyRepo, auditRepo),
		apiKeyRepo: apiKeyRepo,
		resolver:   NewRequesterResolver(principalRepo, groupRepo),
	}
}

func TestPrincipalService_Create(t *testing.T) {
	svc := setupSecurityServices(t)

	p, err := svc.principals.Create(adminCtx(), domain.CreatePrincipalRequest{Name: "test1"})
	require.NoError(t, err)
	assert.Equal(t, "test1", p.Name)

	got, err := svc.principals.GetByName(adminCtx(), "test1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestPrincipalService_Create_Validation(t *testing.T) {
	svc := setupSecurityServices(t)

	_, err := svc.principals.Create(adminCtx(), domain.CreatePrincipalRequest{})
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestPrincipalService_Create_RequiresAdmin(t *testing.T) {
	svc := setupSecurityServices(t)

	_, err := svc.principals.Create(nonAdminCtx(), domain.CreatePrincipalRequest{Name: "x"})
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestGroupService_Membership(t *testing.T) {
	svc := setupSecurityServices(t)
	ctx := adminCtx()

	p, err := svc.principals.Create(ctx, domain.CreatePrincipalRequest{Name: "test1"})
	require.NoError(t, err)
	g, err := svc.groups.Create(ctx, domain.CreateGroupRequest{Name: "test1_group"})
	require.NoError(t, err)
	require.NoError(t, svc.groups.AddMember(ctx, g.ID, p.ID))

	userCtx := domain.WithPrincipal(ctx, domain.ContextPrincipal{Name: "test1"})
	req, err := svc.resolver.Resolve(userCtx)
	require.NoError(t, err)
	assert.True(t, req.InGroup(g.ID))

	require.NoError(t, svc.groups.RemoveMember(ctx, g.ID, p.ID))
	req, err = svc.resolver.Resolve(userCtx)
	require.NoError(t, err)
	assert.False(t, req.InGroup(g.ID))

	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, svc.groups.AddMember(nonAdminCtx(), g.ID, p.ID), &denied)
}

func TestAPIKeyService_CreateAndLookup(t *testing.T) {
	svc := setupSecurityServices(t)

	p, err := svc.principals.Create(adminCtx(), domain.CreatePrincipalRequest{Name: "keyowner"})
	require.NoError(t, err)

	rawKey, key, err := svc.apiKeys.Create(adminCtx(), p.ID, "ci")
	require.NoError(t, err)
	assert.Len(t, rawKey, 64)
	assert.Equal(t, HashAPIKey(rawKey), key.KeyHash)

	name, err := svc.apiKeyRepo.LookupPrincipalByAPIKeyHash(adminCtx(), HashAPIKey(rawKey))
	require.NoError(t, err)
	assert.Equal(t, "keyowner", name)
}

func TestAPIKeyService_Register_Validation(t *testing.T) {
	svc := setupSecurityServices(t)

	_, err := svc.apiKeys.Register(adminCtx(), 1, "", "0123456789abcdef")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.apiKeys.Register(adminCtx(), 1, "short", "abc")
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.apiKeys.Register(nonAdminCtx(), 1, "k", "0123456789abcdef")
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &denied)
}
