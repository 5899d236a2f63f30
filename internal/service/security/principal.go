package security

import (
	"context"
	"fmt"

	"synclist-hub/internal/domain"
)

// PrincipalService provides principal management operations.
type PrincipalService struct {
	repo  domain.PrincipalRepository
	audit domain.AuditRepository
}

// NewPrincipalService creates a new PrincipalService.
func NewPrincipalService(repo domain.PrincipalRepository, audit domain.AuditRepository) *PrincipalService {
	return &PrincipalService{repo: repo, audit: audit}
}

// Create validates and persists a new principal. Admin only.
func (s *PrincipalService) Create(ctx context.Context, req domain.CreatePrincipalRequest) (*domain.Principal, error) {
	if err := RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	result, err := s.repo.Create(ctx, &domain.Principal{Name: req.Name, IsAdmin: req.IsAdmin})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, fmt.Sprintf("CREATE_PRINCIPAL(name=%s)", req.Name))
	return result, nil
}

// GetByName returns a principal by name.
func (s *PrincipalService) GetByName(ctx context.Context, name string) (*domain.Principal, error) {
	return s.repo.GetByName(ctx, name)
}

// List returns a paginated list of principals.
func (s *PrincipalService) List(ctx context.Context, page domain.PageRequest) ([]domain.Principal, int64, error) {
	return s.repo.List(ctx, page)
}

func (s *PrincipalService) logAudit(ctx context.Context, action string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: CallerName(ctx),
		Action:        action,
		Status:        domain.AuditAllowed,
	})
}
