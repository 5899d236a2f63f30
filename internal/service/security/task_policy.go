package security

import "synclist-hub/internal/domain"

// TaskAccessPolicy scopes task records: admins see every task, everyone else
// only the tasks they created.
type TaskAccessPolicy struct{}

// Scope narrows filter to what req may list.
func (TaskAccessPolicy) Scope(req Requester, filter domain.TaskFilter) domain.TaskFilter {
	if req.IsAdmin {
		return filter
	}
	name := req.Name
	filter.CreatedBy = &name
	return filter
}

// Authorize returns a NotFoundError when req may not see t.
func (TaskAccessPolicy) Authorize(req Requester, t *domain.TaskRecord) error {
	if req.IsAdmin || t.CreatedBy == req.Name {
		return nil
	}
	return domain.ErrNotFound("task %s not found", t.ID)
}
