// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"time"

	"synclist-hub/internal/domain"
)

// === Audit Repository Mock ===

// MockAuditRepo implements domain.AuditRepository for testing.
type MockAuditRepo struct {
	InsertFn func(ctx context.Context, e *domain.AuditEntry) error
	ListFn   func(ctx context.Context, page domain.PageRequest) ([]domain.AuditEntry, int64, error)
	Entries  []*domain.AuditEntry // collected entries for assertions
}

// Insert implements the interface method for testing.
func (m *MockAuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, e); err != nil {
			return err
		}
	}
	m.Entries = append(m.Entries, e)
	return nil
}

// List implements the interface method for testing.
func (m *MockAuditRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.AuditEntry, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	panic("unexpected call to MockAuditRepo.List")
}

// LastEntry returns the last collected audit entry, or nil if none.
func (m *MockAuditRepo) LastEntry() *domain.AuditEntry {
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}

// HasAction returns true if any collected entry has the given action.
func (m *MockAuditRepo) HasAction(action string) bool {
	for _, e := range m.Entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

// === Principal Repository Mock ===

// MockPrincipalRepo implements domain.PrincipalRepository for testing.
type MockPrincipalRepo struct {
	CreateFn    func(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	GetByIDFn   func(ctx context.Context, id int64) (*domain.Principal, error)
	GetByNameFn func(ctx context.Context, name string) (*domain.Principal, error)
	ListFn      func(ctx context.Context, page domain.PageRequest) ([]domain.Principal, int64, error)
}

// Create implements the interface method for testing.
func (m *MockPrincipalRepo) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	panic("unexpected call to MockPrincipalRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockPrincipalRepo) GetByID(ctx context.Context, id int64) (*domain.Principal, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockPrincipalRepo.GetByID")
}

// GetByName implements the interface method for testing.
func (m *MockPrincipalRepo) GetByName(ctx context.Context, name string) (*domain.Principal, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	panic("unexpected call to MockPrincipalRepo.GetByName")
}

// List implements the interface method for testing.
func (m *MockPrincipalRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Principal, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	panic("unexpected call to MockPrincipalRepo.List")
}

// === Group Repository Mock ===

// MockGroupRepo implements domain.GroupRepository for testing.
type MockGroupRepo struct {
	CreateFn             func(ctx context.Context, g *domain.Group) (*domain.Group, error)
	GetByIDFn            func(ctx context.Context, id int64) (*domain.Group, error)
	GetByNameFn          func(ctx context.Context, name string) (*domain.Group, error)
	AddMemberFn          func(ctx context.Context, groupID, principalID int64) error
	RemoveMemberFn       func(ctx context.Context, groupID, principalID int64) error
	GroupsForPrincipalFn func(ctx context.Context, principalID int64) ([]domain.Group, error)
}

// Create implements the interface method for testing.
func (m *MockGroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, g)
	}
	panic("unexpected call to MockGroupRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockGroupRepo) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockGroupRepo.GetByID")
}

// GetByName implements the interface method for testing.
func (m *MockGroupRepo) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	panic("unexpected call to MockGroupRepo.GetByName")
}

// AddMember implements the interface method for testing.
func (m *MockGroupRepo) AddMember(ctx context.Context, groupID, principalID int64) error {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(ctx, groupID, principalID)
	}
	panic("unexpected call to MockGroupRepo.AddMember")
}

// RemoveMember implements the interface method for testing.
func (m *MockGroupRepo) RemoveMember(ctx context.Context, groupID, principalID int64) error {
	if m.RemoveMemberFn != nil {
		return m.RemoveMemberFn(ctx, groupID, principalID)
	}
	panic("unexpected call to MockGroupRepo.RemoveMember")
}

// GroupsForPrincipal implements the interface method for testing.
func (m *MockGroupRepo) GroupsForPrincipal(ctx context.Context, principalID int64) ([]domain.Group, error) {
	if m.GroupsForPrincipalFn != nil {
		return m.GroupsForPrincipalFn(ctx, principalID)
	}
	panic("unexpected call to MockGroupRepo.GroupsForPrincipal")
}

// === Synclist Repository Mock ===

// MockSynclistRepo implements domain.SynclistRepository for testing.
type MockSynclistRepo struct {
	CreateFn        func(ctx context.Context, s *domain.Synclist) (*domain.Synclist, error)
	GetByIDFn       func(ctx context.Context, id int64) (*domain.Synclist, error)
	ListFn          func(ctx context.Context, page domain.PageRequest) ([]domain.Synclist, int64, error)
	ListForGroupsFn func(ctx context.Context, groupIDs []int64) ([]domain.Synclist, error)
	UpdateFn        func(ctx context.Context, s *domain.Synclist) (*domain.Synclist, error)
	DeleteFn        func(ctx context.Context, id int64) error
}

// Create implements the interface method for testing.
func (m *MockSynclistRepo) Create(ctx context.Context, s *domain.Synclist) (*domain.Synclist, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	panic("unexpected call to MockSynclistRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockSynclistRepo) GetByID(ctx context.Context, id int64) (*domain.Synclist, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockSynclistRepo.GetByID")
}

// List implements the interface method for testing.
func (m *MockSynclistRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Synclist, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	panic("unexpected call to MockSynclistRepo.List")
}

// ListForGroups implements the interface method for testing.
func (m *MockSynclistRepo) ListForGroups(ctx context.Context, groupIDs []int64) ([]domain.Synclist, error) {
	if m.ListForGroupsFn != nil {
		return m.ListForGroupsFn(ctx, groupIDs)
	}
	panic("unexpected call to MockSynclistRepo.ListForGroups")
}

// Update implements the interface method for testing.
func (m *MockSynclistRepo) Update(ctx context.Context, s *domain.Synclist) (*domain.Synclist, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, s)
	}
	panic("unexpected call to MockSynclistRepo.Update")
}

// Delete implements the interface method for testing.
func (m *MockSynclistRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	panic("unexpected call to MockSynclistRepo.Delete")
}

// === Content Repository Mock ===

// MockContentRepo implements domain.ContentRepository for testing.
type MockContentRepo struct {
	CreateRepositoryFn    func(ctx context.Context, r *domain.Repository) (*domain.Repository, error)
	GetRepositoryFn       func(ctx context.Context, id string) (*domain.Repository, error)
	GetRepositoryByNameFn func(ctx context.Context, name string) (*domain.Repository, error)
	CreateNamespaceFn     func(ctx context.Context, name string) (*domain.Namespace, error)
	MissingNamespacesFn   func(ctx context.Context, names []string) ([]string, error)
}

// CreateRepository implements the interface method for testing.
func (m *MockContentRepo) CreateRepository(ctx context.Context, r *domain.Repository) (*domain.Repository, error) {
	if m.CreateRepositoryFn != nil {
		return m.CreateRepositoryFn(ctx, r)
	}
	panic("unexpected call to MockContentRepo.CreateRepository")
}

// GetRepository implements the interface method for testing.
func (m *MockContentRepo) GetRepository(ctx context.Context, id string) (*domain.Repository, error) {
	if m.GetRepositoryFn != nil {
		return m.GetRepositoryFn(ctx, id)
	}
	panic("unexpected call to MockContentRepo.GetRepository")
}

// GetRepositoryByName implements the interface method for testing.
func (m *MockContentRepo) GetRepositoryByName(ctx context.Context, name string) (*domain.Repository, error) {
	if m.GetRepositoryByNameFn != nil {
		return m.GetRepositoryByNameFn(ctx, name)
	}
	panic("unexpected call to MockContentRepo.GetRepositoryByName")
}

// CreateNamespace implements the interface method for testing.
func (m *MockContentRepo) CreateNamespace(ctx context.Context, name string) (*domain.Namespace, error) {
	if m.CreateNamespaceFn != nil {
		return m.CreateNamespaceFn(ctx, name)
	}
	panic("unexpected call to MockContentRepo.CreateNamespace")
}

// MissingNamespaces implements the interface method for testing.
func (m *MockContentRepo) MissingNamespaces(ctx context.Context, names []string) ([]string, error) {
	if m.MissingNamespacesFn != nil {
		return m.MissingNamespacesFn(ctx, names)
	}
	panic("unexpected call to MockContentRepo.MissingNamespaces")
}

// === Task Repository Mock ===

// MockTaskRepo implements domain.TaskRepository for testing.
type MockTaskRepo struct {
	CreateFn               func(ctx context.Context, t *domain.TaskRecord) (*domain.TaskRecord, error)
	GetByIDFn              func(ctx context.Context, id string) (*domain.TaskRecord, error)
	ListFn                 func(ctx context.Context, filter domain.TaskFilter) ([]domain.TaskRecord, int64, error)
	UpdateStateFn          func(ctx context.Context, id string, state domain.TaskState, errMsg *string) error
	DeleteFinishedBeforeFn func(ctx context.Context, before time.Time) (int64, error)
	Created                []*domain.TaskRecord // collected tasks for assertions
}

// Create implements the interface method for testing.
func (m *MockTaskRepo) Create(ctx context.Context, t *domain.TaskRecord) (*domain.TaskRecord, error) {
	if m.CreateFn != nil {
		out, err := m.CreateFn(ctx, t)
		if err != nil {
			return nil, err
		}
		m.Created = append(m.Created, out)
		return out, nil
	}
	m.Created = append(m.Created, t)
	return t, nil
}

// GetByID implements the interface method for testing.
func (m *MockTaskRepo) GetByID(ctx context.Context, id string) (*domain.TaskRecord, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockTaskRepo.GetByID")
}

// List implements the interface method for testing.
func (m *MockTaskRepo) List(ctx context.Context, filter domain.TaskFilter) ([]domain.TaskRecord, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockTaskRepo.List")
}

// UpdateState implements the interface method for testing.
func (m *MockTaskRepo) UpdateState(ctx context.Context, id string, state domain.TaskState, errMsg *string) error {
	if m.UpdateStateFn != nil {
		return m.UpdateStateFn(ctx, id, state, errMsg)
	}
	panic("unexpected call to MockTaskRepo.UpdateState")
}

// DeleteFinishedBefore implements the interface method for testing.
func (m *MockTaskRepo) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	if m.DeleteFinishedBeforeFn != nil {
		return m.DeleteFinishedBeforeFn(ctx, before)
	}
	panic("unexpected call to MockTaskRepo.DeleteFinishedBefore")
}

// === API Key Repository Mock ===

// MockAPIKeyRepo implements domain.APIKeyRepository for testing.
type MockAPIKeyRepo struct {
	CreateFn                      func(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error)
	LookupPrincipalByAPIKeyHashFn func(ctx context.Context, keyHash string) (string, error)
}

// Create implements the interface method for testing.
func (m *MockAPIKeyRepo) Create(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, k)
	}
	panic("unexpected call to MockAPIKeyRepo.Create")
}

// LookupPrincipalByAPIKeyHash implements the interface method for testing.
func (m *MockAPIKeyRepo) LookupPrincipalByAPIKeyHash(ctx context.Context, keyHash string) (string, error) {
	if m.LookupPrincipalByAPIKeyHashFn != nil {
		return m.LookupPrincipalByAPIKeyHashFn(ctx, keyHash)
	}
	panic("unexpected call to MockAPIKeyRepo.LookupPrincipalByAPIKeyHash")
}
