// Package api exposes the synclist and task services over HTTP.
package api

import (
	"context"
	"log/slog"

	"synclist-hub/internal/domain"
)

// MySynclistService is the per-caller synclist surface.
type MySynclistService interface {
	List(ctx context.Context, page domain.PageRequest) ([]domain.Synclist, int64, error)
	Get(ctx context.Context, id int64) (*domain.Synclist, error)
	Create(ctx context.Context) error
	Update(ctx context.Context, id int64, update domain.UpdateSynclistRequest, partial bool) (*domain.Synclist, error)
	AuthorizeUpdate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// AdminSynclistService is the privileged synclist surface.
type AdminSynclistService interface {
	AuthorizeCreate(ctx context.Context) error
	Create(ctx context.Context, req domain.CreateSynclistRequest) (*domain.Synclist, error)
	List(ctx context.Context, page domain.PageRequest) ([]domain.Synclist, int64, error)
	Get(ctx context.Context, id int64) (*domain.Synclist, error)
	Delete(ctx context.Context, id int64) error
}

// TaskService lists task records visible to the caller.
type TaskService interface {
	List(ctx context.Context, page domain.PageRequest) ([]domain.TaskRecord, int64, error)
	Get(ctx context.Context, id string) (*domain.TaskRecord, error)
}

// Handler serves the /v1 API.
type Handler struct {
	my     MySynclistService
	admin  AdminSynclistService
	tasks  TaskService
	logger *slog.Logger
}

// NewHandler creates a Handler with all required service dependencies.
func NewHandler(my MySynclistService, admin AdminSynclistService, tasks TaskService, logger *slog.Logger) *Handler {
	return &Handler{
		my:     my,
		admin:  admin,
		tasks:  tasks,
		logger: logger.With("component", "api"),
	}
}
