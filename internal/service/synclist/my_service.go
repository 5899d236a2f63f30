package synclist

import (
	"context"
	"fmt"
	"log/slog"

	"synclist-hub/internal/domain"
	"synclist-hub/internal/service/auditutil"
	"synclist-hub/internal/service/security"
)

// MyService serves the synclists owned by the caller's groups. It resolves
// the caller, loads the target, asks the gate, and only then looks at the
// payload.
type MyService struct {
	resolver  RequesterResolver
	gate      *security.SynclistAccessGate
	synclists domain.SynclistRepository
	refs      references
	tasks     domain.TaskRepository
	audit     domain.AuditRepository
	logger    *slog.Logger
}

// NewMyService creates a MyService.
func NewMyService(
	resolver RequesterResolver,
	gate *security.SynclistAccessGate,
	synclists domain.SynclistRepository,
	content domain.ContentRepository,
	groups domain.GroupRepository,
	tasks domain.TaskRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *MyService {
	return &MyService{
		resolver:  resolver,
		gate:      gate,
		synclists: synclists,
		refs:      references{content: content, groups: groups},
		tasks:     tasks,
		audit:     audit,
		logger:    logger.With("component", "my-synclists"),
	}
}

// List returns a page of the synclists visible to the caller, ascending by
// ID, and the total number visible.
func (s *MyService) List(ctx context.Context, page domain.PageRequest) ([]domain.Synclist, int64, error) {
	req, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := s.gate.Authorize(req, security.OpList, nil); err != nil {
		return nil, 0, err
	}

	candidates, err := s.synclists.ListForGroups(ctx, req.GroupIDList())
	if err != nil {
		return nil, 0, fmt.Errorf("list synclists for %q: %w", req.Name, err)
	}
	visible := s.gate.Filter(req, candidates)
	return domain.Paginate(visible, page), int64(len(visible)), nil
}

// Get returns one synclist the caller can see.
func (s *MyService) Get(ctx context.Context, id int64) (*domain.Synclist, error) {
	req, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(req, security.OpRetrieve, target); err != nil {
		s.denied(ctx, req, "GET_SYNCLIST", id, err)
		return nil, err
	}
	return target, nil
}

// Create always fails: synclists are created through the admin path. The
// payload is never inspected.
func (s *MyService) Create(ctx context.Context) error {
	req := security.Requester{Name: security.CallerName(ctx)}
	err := s.gate.Authorize(req, security.OpCreate, nil)
	s.denied(ctx, req, "CREATE_SYNCLIST", 0, err)
	return err
}

// Delete always fails: synclists are deleted through the admin path.
func (s *MyService) Delete(ctx context.Context, id int64) error {
	req := security.Requester{Name: security.CallerName(ctx)}
	err := s.gate.Authorize(req, security.OpDelete, nil)
	s.denied(ctx, req, "DELETE_SYNCLIST", id, err)
	return err
}

// Update applies req to the synclist. A partial update leaves absent fields
// unchanged; a full update must carry repository and policy. On success a
// curate-synclist task is recorded for the synclist.
func (s *MyService) Update(ctx context.Context, id int64, update domain.UpdateSynclistRequest, partial bool) (*domain.Synclist, error) {
	req, target, err := s.authorizeUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := update.Validate(partial); err != nil {
		return nil, err
	}
	if update.Name != nil && *update.Name != target.Name {
		return nil, domain.ErrValidation("name cannot be changed (stored name is %q)", target.Name)
	}
	if err := s.refs.checkUpdate(ctx, &update); err != nil {
		return nil, err
	}

	next := update.Apply(*target)
	result, err := s.synclists.Update(ctx, &next)
	if err != nil {
		return nil, fmt.Errorf("update synclist %d: %w", id, err)
	}

	recordCuration(ctx, s.tasks, s.logger, req.Name, result.ID)
	auditutil.LogAllowed(ctx, s.audit, s.logger, req.Name, "UPDATE_SYNCLIST", resourceName(id))
	return result, nil
}

// AuthorizeUpdate reports whether the caller may change synclist id without
// touching it. Handlers call it when a request body cannot be decoded so the
// caller still sees 404 or 403 ahead of 400.
func (s *MyService) AuthorizeUpdate(ctx context.Context, id int64) error {
	_, _, err := s.authorizeUpdate(ctx, id)
	return err
}

func (s *MyService) authorizeUpdate(ctx context.Context, id int64) (security.Requester, *domain.Synclist, error) {
	req, err := s.resolver.Resolve(ctx)
	if err != nil {
		return req, nil, err
	}
	target, err := s.load(ctx, id)
	if err != nil {
		return req, nil, err
	}
	if err := s.gate.Authorize(req, security.OpUpdate, target); err != nil {
		s.denied(ctx, req, "UPDATE_SYNCLIST", id, err)
		return req, nil, err
	}
	return req, target, nil
}

func (s *MyService) load(ctx context.Context, id int64) (*domain.Synclist, error) {
	target, err := s.synclists.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound("synclist %d not found", id)
		}
		return nil, fmt.Errorf("load synclist %d: %w", id, err)
	}
	return target, nil
}

func (s *MyService) denied(ctx context.Context, req security.Requester, action string, id int64, err error) {
	auditutil.LogDenied(ctx, s.logger, req.Name, action, fmt.Sprintf("%s: %v", resourceName(id), err))
}

// recordCuration stores the task that re-curates a synclist's repository.
// Failure is logged, not returned: the edit itself has been committed.
func recordCuration(ctx context.Context, tasks domain.TaskRepository, logger *slog.Logger, createdBy string, synclistID int64) {
	_, err := tasks.Create(ctx, &domain.TaskRecord{
		Name:      domain.TaskCurateSynclist,
		CreatedBy: createdBy,
		Resource:  resourceName(synclistID),
	})
	if err != nil {
		logger.WarnContext(ctx, "record curation task failed", "synclist_id", synclistID, "error", err)
	}
}
