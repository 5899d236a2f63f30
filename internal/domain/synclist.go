package domain

import (
	"sort"
	"strings"
	"time"
)

// SynclistPolicy determines whether the listed namespaces and collections are
// the ones mirrored (include) or the ones left out (exclude).
type SynclistPolicy string

// Synclist policies.
const (
	PolicyInclude SynclistPolicy = "include"
	PolicyExclude SynclistPolicy = "exclude"
)

// Valid reports whether p is a known policy.
func (p SynclistPolicy) Valid() bool {
	return p == PolicyInclude || p == PolicyExclude
}

// Object permissions a group may hold on a single synclist.
const (
	PermViewSynclist   = "galaxy.view_synclist"
	PermAddSynclist    = "galaxy.add_synclist"
	PermChangeSynclist = "galaxy.change_synclist"
	PermDeleteSynclist = "galaxy.delete_synclist"
)

var synclistPermissions = map[string]bool{
	PermViewSynclist:   true,
	PermAddSynclist:    true,
	PermChangeSynclist: true,
	PermDeleteSynclist: true,
}

// OwnerPermissions returns the permission bundle held by a synclist's owning group.
func OwnerPermissions() []string {
	return []string{PermAddSynclist, PermChangeSynclist, PermDeleteSynclist, PermViewSynclist}
}

// IsSynclistPermission reports whether perm is a known synclist object permission.
func IsSynclistPermission(perm string) bool {
	return synclistPermissions[perm]
}

// GroupPermissions is one group's object-permission bundle on a synclist.
type GroupPermissions struct {
	GroupID     int64
	GroupName   string
	Permissions []string
}

// Has reports whether the bundle contains perm.
func (g GroupPermissions) Has(perm string) bool {
	for _, p := range g.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Synclist is a named, group-owned filter describing which upstream
// namespaces and collections are mirrored into a local repository.
type Synclist struct {
	ID                 int64
	Name               string
	Repository         string
	UpstreamRepository *string
	Policy             SynclistPolicy
	Collections        []string
	Namespaces         []string
	Groups             []GroupPermissions
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// GroupBundle returns the permission bundle for groupID, if the group is
// attached to the synclist.
func (s *Synclist) GroupBundle(groupID int64) (GroupPermissions, bool) {
	for _, g := range s.Groups {
		if g.GroupID == groupID {
			return g, true
		}
	}
	return GroupPermissions{}, false
}

// GroupGrant is the request-side form of a group permission bundle.
type GroupGrant struct {
	GroupID     int64
	Permissions []string
}

// CreateSynclistRequest holds parameters for creating a synclist through the
// privileged endpoint.
type CreateSynclistRequest struct {
	Name               string
	Repository         string
	UpstreamRepository *string
	Policy             SynclistPolicy
	Collections        []string
	Namespaces         []string
	Groups             []GroupGrant
}

// Validate checks field-level constraints and applies defaults.
func (r *CreateSynclistRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrValidation("name is required")
	}
	if r.Repository == "" {
		return ErrValidation("repository is required")
	}
	if r.Policy == "" {
		r.Policy = PolicyExclude
	}
	if !r.Policy.Valid() {
		return ErrValidation("policy must be 'include' or 'exclude'")
	}
	if err := validateCollections(r.Collections); err != nil {
		return err
	}
	return validateGrants(r.Groups)
}

// UpdateSynclistRequest holds the fields of an update. Nil fields are left
// unchanged on a partial update.
type UpdateSynclistRequest struct {
	Name               *string
	Repository         *string
	UpstreamRepository *string
	Policy             *SynclistPolicy
	Collections        *[]string
	Namespaces         *[]string
	Groups             *[]GroupGrant
}

// Validate checks field-level constraints. A full (non-partial) update must
// carry repository and policy.
func (r *UpdateSynclistRequest) Validate(partial bool) error {
	if !partial {
		if r.Repository == nil {
			return ErrValidation("repository is required")
		}
		if r.Policy == nil {
			return ErrValidation("policy is required")
		}
	}
	if r.Repository != nil && *r.Repository == "" {
		return ErrValidation("repository must not be empty")
	}
	if r.Policy != nil && !r.Policy.Valid() {
		return ErrValidation("policy must be 'include' or 'exclude'")
	}
	if r.Collections != nil {
		if err := validateCollections(*r.Collections); err != nil {
			return err
		}
	}
	if r.Groups != nil {
		return validateGrants(*r.Groups)
	}
	return nil
}

// Apply returns a copy of s with the request's fields applied. Group names
// are not resolved here; callers attach them after lookup.
func (r *UpdateSynclistRequest) Apply(s Synclist) Synclist {
	out := s
	if r.Repository != nil {
		out.Repository = *r.Repository
	}
	if r.UpstreamRepository != nil {
		if *r.UpstreamRepository == "" {
			out.UpstreamRepository = nil
		} else {
			up := *r.UpstreamRepository
			out.UpstreamRepository = &up
		}
	}
	if r.Policy != nil {
		out.Policy = *r.Policy
	}
	if r.Collections != nil {
		out.Collections = append([]string{}, (*r.Collections)...)
	}
	if r.Namespaces != nil {
		out.Namespaces = NormalizeNamespaces(*r.Namespaces)
	}
	if r.Groups != nil {
		out.Groups = make([]GroupPermissions, 0, len(*r.Groups))
		for _, g := range *r.Groups {
			out.Groups = append(out.Groups, GroupPermissions{
				GroupID:     g.GroupID,
				Permissions: NormalizePermissions(g.Permissions),
			})
		}
	}
	return out
}

// NormalizeNamespaces deduplicates and sorts namespace names.
func NormalizeNamespaces(names []string) []string {
	return sortedSet(names)
}

// NormalizePermissions deduplicates and sorts a permission list.
func NormalizePermissions(perms []string) []string {
	return sortedSet(perms)
}

func sortedSet(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func validateCollections(collections []string) error {
	for _, c := range collections {
		ns, name, ok := strings.Cut(c, ".")
		if !ok || ns == "" || name == "" || strings.Contains(name, ".") {
			return ErrValidation("collection %q must be in the form namespace.name", c)
		}
	}
	return nil
}

func validateGrants(grants []GroupGrant) error {
	seen := make(map[int64]bool, len(grants))
	for _, g := range grants {
		if g.GroupID <= 0 {
			return ErrValidation("group id is required")
		}
		if seen[g.GroupID] {
			return ErrValidation("group %d listed more than once", g.GroupID)
		}
		seen[g.GroupID] = true
		for _, p := range g.Permissions {
			if !IsSynclistPermission(p) {
				return ErrValidation("unknown object permission %q", p)
			}
		}
	}
	return nil
}
