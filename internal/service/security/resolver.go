package security

import (
	"context"
	"errors"
	"fmt"

	"synclist-hub/internal/domain"
)

// RequesterResolver materializes the Requester for the principal carried in
// a request context.
type RequesterResolver struct {
	principals domain.PrincipalRepository
	groups     domain.GroupRepository
}

// NewRequesterResolver creates a RequesterResolver.
func NewRequesterResolver(principals domain.PrincipalRepository, groups domain.GroupRepository) *RequesterResolver {
	return &RequesterResolver{principals: principals, groups: groups}
}

// Resolve looks up the context principal by name and loads its groups.
// Unauthenticated or unknown principals are denied.
func (r *RequesterResolver) Resolve(ctx context.Context) (Requester, error) {
	cp, ok := domain.PrincipalFromContext(ctx)
	if !ok || cp.Name == "" {
		return Requester{}, domain.ErrAccessDenied("authentication required")
	}

	p, err := r.principals.GetByName(ctx, cp.Name)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return Requester{}, domain.ErrAccessDenied("principal %q is not registered", cp.Name)
		}
		return Requester{}, fmt.Errorf("lookup principal %q: %w", cp.Name, err)
	}

	groups, err := r.groups.GroupsForPrincipal(ctx, p.ID)
	if err != nil {
		return Requester{}, fmt.Errorf("resolve groups for %q: %w", p.Name, err)
	}
	return NewRequester(*p, groups), nil
}
