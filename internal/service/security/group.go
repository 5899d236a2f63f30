package security

import (
	"context"
	"fmt"

	"synclist-hub/internal/domain"
)

// GroupService provides group management operations.
type GroupService struct {
	repo  domain.GroupRepository
	audit domain.AuditRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(repo domain.GroupRepository, audit domain.AuditRepository) *GroupService {
	return &GroupService{repo: repo, audit: audit}
}

// Create validates and persists a new group. Admin only.
func (s *GroupService) Create(ctx context.Context, req domain.CreateGroupRequest) (*domain.Group, error) {
	if err := RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	g, err := s.repo.Create(ctx, &domain.Group{Name: req.Name})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, fmt.Sprintf("CREATE_GROUP(name=%s)", req.Name))
	return g, nil
}

// GetByName returns a group by name.
func (s *GroupService) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	return s.repo.GetByName(ctx, name)
}

// AddMember adds a principal to a group. Admin only.
func (s *GroupService) AddMember(ctx context.Context, groupID, principalID int64) error {
	if err := RequireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.AddMember(ctx, groupID, principalID); err != nil {
		return err
	}
	s.logAudit(ctx, fmt.Sprintf("ADD_GROUP_MEMBER(group=%d, principal=%d)", groupID, principalID))
	return nil
}

// RemoveMember removes a principal from a group. Admin only.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, principalID int64) error {
	if err := RequireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(ctx, groupID, principalID); err != nil {
		return err
	}
	s.logAudit(ctx, fmt.Sprintf("REMOVE_GROUP_MEMBER(group=%d, principal=%d)", groupID, principalID))
	return nil
}

func (s *GroupService) logAudit(ctx context.Context, action string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		PrincipalName: CallerName(ctx),
		Action:        action,
		Status:        domain.AuditAllowed,
	})
}
