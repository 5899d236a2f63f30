// Package synclist composes the access gate with persistence for the
// "my synclists" path and the privileged admin path.
package synclist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"synclist-hub/internal/domain"
	"synclist-hub/internal/service/security"
)

// RequesterResolver materializes the requester for a request context.
type RequesterResolver interface {
	Resolve(ctx context.Context) (security.Requester, error)
}

// references checks that the repositories, namespaces and groups a synclist
// points at exist. Every failure is a ValidationError.
type references struct {
	content domain.ContentRepository
	groups  domain.GroupRepository
}

func (r references) checkRepository(ctx context.Context, field, id string) error {
	if _, err := r.content.GetRepository(ctx, id); err != nil {
		if isNotFound(err) {
			return domain.ErrValidation("%s %q does not exist", field, id)
		}
		return fmt.Errorf("lookup %s: %w", field, err)
	}
	return nil
}

func (r references) checkNamespaces(ctx context.Context, names []string) error {
	missing, err := r.content.MissingNamespaces(ctx, names)
	if err != nil {
		return fmt.Errorf("lookup namespaces: %w", err)
	}
	if len(missing) > 0 {
		return domain.ErrValidation("unknown namespaces: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (r references) checkGroups(ctx context.Context, grants []domain.GroupGrant) error {
	for _, g := range grants {
		if _, err := r.groups.GetByID(ctx, g.GroupID); err != nil {
			if isNotFound(err) {
				return domain.ErrValidation("group %d does not exist", g.GroupID)
			}
			return fmt.Errorf("lookup group %d: %w", g.GroupID, err)
		}
	}
	return nil
}

// checkUpdate validates the references an update introduces.
func (r references) checkUpdate(ctx context.Context, req *domain.UpdateSynclistRequest) error {
	if req.Repository != nil {
		if err := r.checkRepository(ctx, "repository", *req.Repository); err != nil {
			return err
		}
	}
	if req.UpstreamRepository != nil && *req.UpstreamRepository != "" {
		if err := r.checkRepository(ctx, "upstream_repository", *req.UpstreamRepository); err != nil {
			return err
		}
	}
	if req.Namespaces != nil {
		if err := r.checkNamespaces(ctx, *req.Namespaces); err != nil {
			return err
		}
	}
	if req.Groups != nil {
		return r.checkGroups(ctx, *req.Groups)
	}
	return nil
}

func isNotFound(err error) bool {
	var notFound *domain.NotFoundError
	return errors.As(err, &notFound)
}

func resourceName(id int64) string {
	return fmt.Sprintf("synclist:%d", id)
}
