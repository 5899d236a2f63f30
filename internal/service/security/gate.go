// Package security decides who may see and change synclists and task records.
// The deciding functions are pure: callers materialize the requester's groups
// and the target's permission bundle first.
package security

import (
	"sort"

	"synclist-hub/internal/domain"
)

// Operation is an action a requester attempts on the "my synclists" collection.
type Operation string

// Operations on the "my synclists" collection.
const (
	OpList     Operation = "list"
	OpRetrieve Operation = "retrieve"
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
)

// Requester is the materialized identity a gate decision is made for.
type Requester struct {
	PrincipalID int64
	Name        string
	IsAdmin     bool
	GroupIDs    map[int64]struct{}
}

// NewRequester builds a Requester from a principal and the groups it belongs to.
func NewRequester(p domain.Principal, groups []domain.Group) Requester {
	ids := make(map[int64]struct{}, len(groups))
	for _, g := range groups {
		ids[g.ID] = struct{}{}
	}
	return Requester{PrincipalID: p.ID, Name: p.Name, IsAdmin: p.IsAdmin, GroupIDs: ids}
}

// InGroup reports whether the requester belongs to groupID.
func (r Requester) InGroup(groupID int64) bool {
	_, ok := r.GroupIDs[groupID]
	return ok
}

// GroupIDList returns the requester's group IDs in ascending order.
func (r Requester) GroupIDList() []int64 {
	out := make([]int64, 0, len(r.GroupIDs))
	for id := range r.GroupIDs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SynclistAccessGate enforces the "my synclists" contract: a principal sees
// and edits only synclists owned by one of its groups, and can never create
// or delete through this path. The admin flag does not widen that scope.
type SynclistAccessGate struct{}

// NewSynclistAccessGate creates a SynclistAccessGate.
func NewSynclistAccessGate() *SynclistAccessGate {
	return &SynclistAccessGate{}
}

// Authorize returns nil when req may perform op on target. Denials are
// *domain.NotFoundError for synclists the requester cannot see and
// *domain.AccessDeniedError otherwise. target is ignored for list, create and
// delete.
func (g *SynclistAccessGate) Authorize(req Requester, op Operation, target *domain.Synclist) error {
	switch op {
	case OpList:
		return nil
	case OpCreate:
		return domain.ErrAccessDenied("synclists cannot be created through my-synclists")
	case OpDelete:
		return domain.ErrAccessDenied("synclists cannot be deleted through my-synclists")
	case OpRetrieve:
		if target == nil || !g.CanView(req, target) {
			return notVisible(target)
		}
		return nil
	case OpUpdate:
		if target == nil || !g.CanView(req, target) {
			return notVisible(target)
		}
		if !g.Holds(req, target, domain.PermChangeSynclist) {
			return domain.ErrAccessDenied("no group of %q may change synclist %d (holds %v)", req.Name, target.ID, g.EffectivePermissions(req, target))
		}
		return nil
	default:
		return domain.ErrAccessDenied("unknown operation %q", op)
	}
}

// Filter returns the synclists req can see, ascending by ID. The input is
// not modified.
func (g *SynclistAccessGate) Filter(req Requester, synclists []domain.Synclist) []domain.Synclist {
	out := make([]domain.Synclist, 0, len(synclists))
	for i := range synclists {
		if g.CanView(req, &synclists[i]) {
			out = append(out, synclists[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CanView reports whether some group of req holds a permission that grants
// visibility of s. Change and delete imply view.
func (g *SynclistAccessGate) CanView(req Requester, s *domain.Synclist) bool {
	return g.Holds(req, s, domain.PermViewSynclist) ||
		g.Holds(req, s, domain.PermChangeSynclist) ||
		g.Holds(req, s, domain.PermDeleteSynclist)
}

// Holds reports whether any of req's groups holds perm on s. Rights are the
// union over all intersecting groups.
func (g *SynclistAccessGate) Holds(req Requester, s *domain.Synclist, perm string) bool {
	for id := range req.GroupIDs {
		if bundle, ok := s.GroupBundle(id); ok && bundle.Has(perm) {
			return true
		}
	}
	return false
}

// EffectivePermissions returns the union of permissions req's groups hold on
// s, sorted.
func (g *SynclistAccessGate) EffectivePermissions(req Requester, s *domain.Synclist) []string {
	var perms []string
	for _, id := range req.GroupIDList() {
		if bundle, ok := s.GroupBundle(id); ok {
			perms = append(perms, bundle.Permissions...)
		}
	}
	return domain.NormalizePermissions(perms)
}

func notVisible(target *domain.Synclist) error {
	if target == nil {
		return domain.ErrNotFound("synclist not found")
	}
	return domain.ErrNotFound("synclist %d not found", target.ID)
}
