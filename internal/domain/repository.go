package domain

import (
	"context"
	"time"
)

// PrincipalRepository provides operations for principals.
type PrincipalRepository interface {
	Create(ctx context.Context, p *Principal) (*Principal, error)
	GetByID(ctx context.Context, id int64) (*Principal, error)
	GetByName(ctx context.Context, name string) (*Principal, error)
	List(ctx context.Context, page PageRequest) ([]Principal, int64, error)
}

// GroupRepository provides operations for groups and membership.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	GetByName(ctx context.Context, name string) (*Group, error)
	AddMember(ctx context.Context, groupID, principalID int64) error
	RemoveMember(ctx context.Context, groupID, principalID int64) error
	GroupsForPrincipal(ctx context.Context, principalID int64) ([]Group, error)
}

// SynclistRepository persists synclists together with their namespace set
// and group permission bundles. Create and Update are transactional.
type SynclistRepository interface {
	Create(ctx context.Context, s *Synclist) (*Synclist, error)
	GetByID(ctx context.Context, id int64) (*Synclist, error)
	List(ctx context.Context, page PageRequest) ([]Synclist, int64, error)
	ListForGroups(ctx context.Context, groupIDs []int64) ([]Synclist, error)
	Update(ctx context.Context, s *Synclist) (*Synclist, error)
	Delete(ctx context.Context, id int64) error
}

// ContentRepository provides lookups for the repositories and namespaces a
// synclist refers to.
type ContentRepository interface {
	CreateRepository(ctx context.Context, r *Repository) (*Repository, error)
	GetRepository(ctx context.Context, id string) (*Repository, error)
	GetRepositoryByName(ctx context.Context, name string) (*Repository, error)
	CreateNamespace(ctx context.Context, name string) (*Namespace, error)
	MissingNamespaces(ctx context.Context, names []string) ([]string, error)
}

// TaskRepository stores task records.
type TaskRepository interface {
	Create(ctx context.Context, t *TaskRecord) (*TaskRecord, error)
	GetByID(ctx context.Context, id string) (*TaskRecord, error)
	List(ctx context.Context, filter TaskFilter) ([]TaskRecord, int64, error)
	UpdateState(ctx context.Context, id string, state TaskState, errMsg *string) error
	DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error)
}

// AuditRepository provides operations for audit log entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, page PageRequest) ([]AuditEntry, int64, error)
}

// APIKeyRepository stores hashed API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, k *APIKey) (*APIKey, error)
	LookupPrincipalByAPIKeyHash(ctx context.Context, keyHash string) (string, error)
}
