package repository

import (
	"context"
	"database/sql"

	"synclist-hub/internal/domain"
)

var _ domain.ContentRepository = (*ContentRepo)(nil)

// ContentRepo stores the repositories and namespaces synclists refer to.
type ContentRepo struct {
	db *sql.DB
}

// NewContentRepo creates a new ContentRepo.
func NewContentRepo(db *sql.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

// CreateRepository inserts a repository, generating an ID when none is set.
func (r *ContentRepo) CreateRepository(ctx context.Context, repo *domain.Repository) (*domain.Repository, error) {
	id := repo.ID
	if id == "" {
		id = domain.NewID()
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO repositories (id, name, created_at) VALUES (?, ?, ?)`,
		id, repo.Name, now()); err != nil {
		return nil, mapDBError(err)
	}
	return r.GetRepository(ctx, id)
}

// GetRepository returns a repository by ID.
func (r *ContentRepo) GetRepository(ctx context.Context, id string) (*domain.Repository, error) {
	var repo domain.Repository
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM repositories WHERE id = ?`, id).
		Scan(&repo.ID, &repo.Name, &repo.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &repo, nil
}

// GetRepositoryByName returns a repository by name.
func (r *ContentRepo) GetRepositoryByName(ctx context.Context, name string) (*domain.Repository, error) {
	var repo domain.Repository
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM repositories WHERE name = ?`, name).
		Scan(&repo.ID, &repo.Name, &repo.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &repo, nil
}

// CreateNamespace inserts a namespace.
func (r *ContentRepo) CreateNamespace(ctx context.Context, name string) (*domain.Namespace, error) {
	ts := now()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO namespaces (name, created_at) VALUES (?, ?)`, name, ts); err != nil {
		return nil, mapDBError(err)
	}
	return &domain.Namespace{Name: name, CreatedAt: ts}, nil
}

// MissingNamespaces returns the subset of names that do not exist, sorted.
func (r *ContentRepo) MissingNamespaces(ctx context.Context, names []string) ([]string, error) {
	names = domain.NormalizeNamespaces(names)
	if len(names) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(names))
	for i, n := range names {
		args[i] = n
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM namespaces WHERE name IN (`+placeholders(len(names))+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	found := make(map[string]bool, len(names))
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		found[n] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, n := range names {
		if !found[n] {
			missing = append(missing, n)
		}
	}
	return missing, nil
}
