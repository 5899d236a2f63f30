// Package app wires repositories, services and HTTP handlers for the
// synclist service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"synclist-hub/internal/api"
	"synclist-hub/internal/config"
	"synclist-hub/internal/db/repository"
	"synclist-hub/internal/middleware"
	"synclist-hub/internal/service/security"
	"synclist-hub/internal/service/synclist"
	"synclist-hub/internal/service/task"
)

// Deps holds the external dependencies that main() must provide.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger

	// Validator overrides the JWT validator derived from Cfg.Auth.
	Validator middleware.JWTValidator
}

// Repos groups the SQLite repositories.
type Repos struct {
	Principals *repository.PrincipalRepo
	Groups     *repository.GroupRepo
	Synclists  *repository.SynclistRepo
	Content    *repository.ContentRepo
	Tasks      *repository.TaskRepo
	Audit      *repository.AuditRepo
	APIKeys    *repository.APIKeyRepo
}

// Services groups all service pointers that the API handler and router need.
type Services struct {
	Principal   *security.PrincipalService
	Group       *security.GroupService
	APIKey      *security.APIKeyService
	MySynclists *synclist.MyService
	Synclists   *synclist.AdminService
	Tasks       *task.Service
}

// App holds the fully-wired application.
type App struct {
	Repos         Repos
	Services      Services
	Handler       *api.Handler
	Authenticator *middleware.Authenticator
	Reaper        *task.Reaper

	cfg    *config.Config
	logger *slog.Logger
}

// New wires all repositories and services from the provided deps.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	readDB := deps.ReadDB
	if readDB == nil {
		readDB = deps.WriteDB
	}

	// === Repositories ===
	repos := Repos{
		Principals: repository.NewPrincipalRepo(deps.WriteDB),
		Groups:     repository.NewGroupRepo(deps.WriteDB),
		Synclists:  repository.NewSynclistRepo(deps.WriteDB),
		Content:    repository.NewContentRepo(deps.WriteDB),
		Tasks:      repository.NewTaskRepo(deps.WriteDB),
		Audit:      repository.NewAuditRepo(deps.WriteDB),
		APIKeys:    repository.NewAPIKeyRepo(deps.WriteDB),
	}

	// === Services ===
	resolver := security.NewRequesterResolver(repos.Principals, repos.Groups)
	gate := security.NewSynclistAccessGate()
	svcs := Services{
		Principal: security.NewPrincipalService(repos.Principals, repos.Audit),
		Group:     security.NewGroupService(repos.Groups, repos.Audit),
		APIKey:    security.NewAPIKeyService(repos.APIKeys, repos.Audit),
		MySynclists: synclist.NewMyService(resolver, gate,
			repos.Synclists, repos.Content, repos.Groups, repos.Tasks, repos.Audit, logger),
		Synclists: synclist.NewAdminService(
			repos.Synclists, repos.Content, repos.Groups, repos.Tasks, repos.Audit, logger),
		Tasks: task.NewService(resolver, repos.Tasks),
	}

	// === Authentication ===
	validator := deps.Validator
	if validator == nil {
		var err error
		if validator, err = newValidator(ctx, cfg.Auth); err != nil {
			return nil, err
		}
	}
	authn := middleware.NewAuthenticator(middleware.AuthConfig{
		Validator:    validator,
		APIKeys:      repository.NewAPIKeyRepo(readDB),
		APIKeyHeader: cfg.Auth.APIKeyHeader,
		HashKey:      security.HashAPIKey,
	}, repository.NewPrincipalRepo(readDB), logger)

	return &App{
		Repos:         repos,
		Services:      svcs,
		Handler:       api.NewHandler(svcs.MySynclists, svcs.Synclists, svcs.Tasks, logger),
		Authenticator: authn,
		Reaper:        task.NewReaper(repos.Tasks, cfg.TaskRetention, cfg.TaskReapSchedule, logger),
		cfg:           cfg,
		logger:        logger,
	}, nil
}

// Router builds the HTTP router. ctx bounds background middleware work.
func (a *App) Router(ctx context.Context) http.Handler {
	return api.NewRouter(ctx, api.RouterConfig{
		Handler: a.Handler,
		Auth:    a.Authenticator.Middleware,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: a.cfg.RateLimitRPS,
			Burst:             a.cfg.RateLimitBurst,
		},
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
		Logger:         a.logger,
	})
}

func newValidator(ctx context.Context, auth config.AuthConfig) (middleware.JWTValidator, error) {
	if auth.OIDCEnabled() {
		v, err := middleware.NewOIDCValidator(ctx, auth.IssuerURL, auth.Audience)
		if err != nil {
			return nil, fmt.Errorf("oidc validator: %w", err)
		}
		return v, nil
	}
	if auth.JWTSecret == "" {
		return nil, nil
	}
	v, err := middleware.NewHS256Validator(auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("hs256 validator: %w", err)
	}
	return v, nil
}
