// Package task exposes recorded task records and prunes old ones.
package task

import (
	"context"
	"fmt"

	"synclist-hub/internal/domain"
	"synclist-hub/internal/service/security"
)

// RequesterResolver materializes the requester for a request context.
type RequesterResolver interface {
	Resolve(ctx context.Context) (security.Requester, error)
}

// Service lists and fetches task records behind TaskAccessPolicy.
type Service struct {
	resolver RequesterResolver
	tasks    domain.TaskRepository
	policy   security.TaskAccessPolicy
}

// NewService creates a task Service.
func NewService(resolver RequesterResolver, tasks domain.TaskRepository) *Service {
	return &Service{resolver: resolver, tasks: tasks}
}

// List returns a page of the tasks the caller may see, newest first.
func (s *Service) List(ctx context.Context, page domain.PageRequest) ([]domain.TaskRecord, int64, error) {
	req, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, 0, err
	}
	filter := s.policy.Scope(req, domain.TaskFilter{Page: page})
	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

// Get returns one task. Tasks the caller may not see are NotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.TaskRecord, error) {
	req, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(req, t); err != nil {
		return nil, err
	}
	return t, nil
}
