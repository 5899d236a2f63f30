package synclist

import (
	"context"
	"fmt"
	"log/slog"

	"synclist-hub/internal/domain"
	"synclist-hub/internal/service/auditutil"
	"synclist-hub/internal/service/security"
)

// AdminService is the privileged synclist path: it creates, lists and
// deletes any synclist. Every operation requires an admin caller.
type AdminService struct {
	synclists domain.SynclistRepository
	refs      references
	tasks     domain.TaskRepository
	audit     domain.AuditRepository
	logger    *slog.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(
	synclists domain.SynclistRepository,
	content domain.ContentRepository,
	groups domain.GroupRepository,
	tasks domain.TaskRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		synclists: synclists,
		refs:      references{content: content, groups: groups},
		tasks:     tasks,
		audit:     audit,
		logger:    logger.With("component", "synclist-admin"),
	}
}

// Create validates and persists a new synclist. Duplicate names are a
// ConflictError.
func (s *AdminService) Create(ctx context.Context, req domain.CreateSynclistRequest) (*domain.Synclist, error) {
	if err := s.requireAdmin(ctx, "CREATE_SYNCLIST"); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.refs.checkRepository(ctx, "repository", req.Repository); err != nil {
		return nil, err
	}
	if req.UpstreamRepository != nil && *req.UpstreamRepository != "" {
		if err := s.refs.checkRepository(ctx, "upstream_repository", *req.UpstreamRepository); err != nil {
			return nil, err
		}
	} else {
		req.UpstreamRepository = nil
	}
	if err := s.refs.checkNamespaces(ctx, req.Namespaces); err != nil {
		return nil, err
	}
	if err := s.refs.checkGroups(ctx, req.Groups); err != nil {
		return nil, err
	}

	groups := make([]domain.GroupPermissions, 0, len(req.Groups))
	for _, g := range req.Groups {
		groups = append(groups, domain.GroupPermissions{GroupID: g.GroupID, Permissions: domain.NormalizePermissions(g.Permissions)})
	}
	collections := req.Collections
	if collections == nil {
		collections = []string{}
	}

	result, err := s.synclists.Create(ctx, &domain.Synclist{
		Name:               req.Name,
		Repository:         req.Repository,
		UpstreamRepository: req.UpstreamRepository,
		Policy:             req.Policy,
		Collections:        collections,
		Namespaces:         domain.NormalizeNamespaces(req.Namespaces),
		Groups:             groups,
	})
	if err != nil {
		return nil, err
	}

	caller := security.CallerName(ctx)
	recordCuration(ctx, s.tasks, s.logger, caller, result.ID)
	auditutil.LogAllowed(ctx, s.audit, s.logger, caller, "CREATE_SYNCLIST", fmt.Sprintf("%s name=%s", resourceName(result.ID), result.Name))
	return result, nil
}

// List returns a page of all synclists.
func (s *AdminService) List(ctx context.Context, page domain.PageRequest) ([]domain.Synclist, int64, error) {
	if err := s.requireAdmin(ctx, "LIST_SYNCLISTS"); err != nil {
		return nil, 0, err
	}
	return s.synclists.List(ctx, page)
}

// Get returns any synclist by ID.
func (s *AdminService) Get(ctx context.Context, id int64) (*domain.Synclist, error) {
	if err := s.requireAdmin(ctx, "GET_SYNCLIST"); err != nil {
		return nil, err
	}
	return s.synclists.GetByID(ctx, id)
}

// Delete removes a synclist.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	if err := s.requireAdmin(ctx, "DELETE_SYNCLIST"); err != nil {
		return err
	}
	if err := s.synclists.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.LogAllowed(ctx, s.audit, s.logger, security.CallerName(ctx), "DELETE_SYNCLIST", resourceName(id))
	return nil
}

// AuthorizeCreate fails with AccessDenied unless the caller is an admin.
func (s *AdminService) AuthorizeCreate(ctx context.Context) error {
	return s.requireAdmin(ctx, "CREATE_SYNCLIST")
}

func (s *AdminService) requireAdmin(ctx context.Context, action string) error {
	if err := security.RequireAdmin(ctx); err != nil {
		auditutil.LogDenied(ctx, s.logger, security.CallerName(ctx), action, err.Error())
		return err
	}
	return nil
}
