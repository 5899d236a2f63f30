package api

import (
	"time"

	"synclist-hub/internal/domain"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// SynclistGroup is a group's permission bundle on a synclist.
type SynclistGroup struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	ObjectPermissions []string `json:"object_permissions"`
}

// Synclist is the wire form of a synclist.
type Synclist struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Repository         string          `json:"repository"`
	UpstreamRepository *string         `json:"upstream_repository"`
	Policy             string          `json:"policy"`
	Collections        []string        `json:"collections"`
	Namespaces         []string        `json:"namespaces"`
	Groups             []SynclistGroup `json:"groups"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// SynclistGroupInput is a group entry in a write request. The name is
// accepted for symmetry with responses and ignored.
type SynclistGroupInput struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name,omitempty"`
	ObjectPermissions []string `json:"object_permissions"`
}

// UpdateSynclistBody is the body of PATCH and PUT on a synclist.
type UpdateSynclistBody struct {
	Name               *string               `json:"name,omitempty"`
	Repository         *string               `json:"repository,omitempty"`
	UpstreamRepository *string               `json:"upstream_repository,omitempty"`
	Policy             *string               `json:"policy,omitempty"`
	Collections        *[]string             `json:"collections,omitempty"`
	Namespaces         *[]string             `json:"namespaces,omitempty"`
	Groups             *[]SynclistGroupInput `json:"groups,omitempty"`
}

// CreateSynclistBody is the body of the privileged create endpoint.
type CreateSynclistBody struct {
	Name               string               `json:"name"`
	Repository         string               `json:"repository"`
	UpstreamRepository *string              `json:"upstream_repository,omitempty"`
	Policy             string               `json:"policy,omitempty"`
	Collections        []string             `json:"collections,omitempty"`
	Namespaces         []string             `json:"namespaces,omitempty"`
	Groups             []SynclistGroupInput `json:"groups,omitempty"`
}

// Task is the wire form of a task record.
type Task struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	State      string     `json:"state"`
	CreatedBy  string     `json:"created_by"`
	Resource   string     `json:"resource"`
	Error      *string    `json:"error"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// ListMeta carries the total item count.
type ListMeta struct {
	Count int64 `json:"count"`
}

// ListLinks carries relative links to neighbouring pages.
type ListLinks struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// ListResponse is the paginated envelope of list endpoints.
type ListResponse[T any] struct {
	Meta  ListMeta  `json:"meta"`
	Links ListLinks `json:"links"`
	Data  []T       `json:"data"`
}

// === Mapping helpers ===

func synclistToAPI(s domain.Synclist) Synclist {
	out := Synclist{
		ID:                 s.ID,
		Name:               s.Name,
		Repository:         s.Repository,
		UpstreamRepository: s.UpstreamRepository,
		Policy:             string(s.Policy),
		Collections:        nonNil(s.Collections),
		Namespaces:         nonNil(s.Namespaces),
		Groups:             make([]SynclistGroup, 0, len(s.Groups)),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	for _, g := range s.Groups {
		out.Groups = append(out.Groups, SynclistGroup{
			ID:                g.GroupID,
			Name:              g.GroupName,
			ObjectPermissions: nonNil(g.Permissions),
		})
	}
	return out
}

func synclistsToAPI(items []domain.Synclist) []Synclist {
	out := make([]Synclist, 0, len(items))
	for _, s := range items {
		out = append(out, synclistToAPI(s))
	}
	return out
}

func taskToAPI(t domain.TaskRecord) Task {
	return Task{
		ID:         t.ID,
		Name:       t.Name,
		State:      string(t.State),
		CreatedBy:  t.CreatedBy,
		Resource:   t.Resource,
		Error:      t.Error,
		CreatedAt:  t.CreatedAt,
		StartedAt:  t.StartedAt,
		FinishedAt: t.FinishedAt,
	}
}

func tasksToAPI(items []domain.TaskRecord) []Task {
	out := make([]Task, 0, len(items))
	for _, t := range items {
		out = append(out, taskToAPI(t))
	}
	return out
}

func grantsFromAPI(in []SynclistGroupInput) []domain.GroupGrant {
	out := make([]domain.GroupGrant, 0, len(in))
	for _, g := range in {
		out = append(out, domain.GroupGrant{GroupID: g.ID, Permissions: nonNil(g.ObjectPermissions)})
	}
	return out
}

func (b UpdateSynclistBody) toDomain() domain.UpdateSynclistRequest {
	req := domain.UpdateSynclistRequest{
		Name:               b.Name,
		Repository:         b.Repository,
		UpstreamRepository: b.UpstreamRepository,
		Collections:        b.Collections,
		Namespaces:         b.Namespaces,
	}
	if b.Policy != nil {
		p := domain.SynclistPolicy(*b.Policy)
		req.Policy = &p
	}
	if b.Groups != nil {
		grants := grantsFromAPI(*b.Groups)
		req.Groups = &grants
	}
	return req
}

func (b CreateSynclistBody) toDomain() domain.CreateSynclistRequest {
	return domain.CreateSynclistRequest{
		Name:               b.Name,
		Repository:         b.Repository,
		UpstreamRepository: b.UpstreamRepository,
		Policy:             domain.SynclistPolicy(b.Policy),
		Collections:        b.Collections,
		Namespaces:         b.Namespaces,
		Groups:             grantsFromAPI(b.Groups),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
