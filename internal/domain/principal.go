package domain

import "time"

// Principal represents an authenticated user identity.
type Principal struct {
	ID        int64
	Name      string
	IsAdmin   bool
	CreatedAt time.Time
}

// Group represents a named collection of principals. Groups hold object
// permissions on individual synclists.
type Group struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// CreatePrincipalRequest holds parameters for creating a new principal.
type CreatePrincipalRequest struct {
	Name    string
	IsAdmin bool
}

// Validate checks that the request is well-formed.
func (r *CreatePrincipalRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("principal name is required")
	}
	return nil
}

// CreateGroupRequest holds parameters for creating a new group.
type CreateGroupRequest struct {
	Name string
}

// Validate checks that the request is well-formed.
func (r *CreateGroupRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("group name is required")
	}
	return nil
}
