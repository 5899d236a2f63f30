package repository

import (
	"context"
	"database/sql"

	"synclist-hub/internal/domain"
)

var _ domain.APIKeyRepository = (*APIKeyRepo)(nil)

// APIKeyRepo stores hashed API keys in SQLite.
type APIKeyRepo struct {
	db *sql.DB
}

// NewAPIKeyRepo creates a new APIKeyRepo.
func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo {
	return &APIKeyRepo{db: db}
}

// Create stores a hashed key for a principal.
func (r *APIKeyRepo) Create(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	if k.ID == "" {
		k.ID = domain.NewID()
	}
	k.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, principal_id, name, key_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, k.ID, k.PrincipalID, k.Name, k.KeyHash, k.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return k, nil
}

// LookupPrincipalByAPIKeyHash returns the name of the principal owning the
// key with the given SHA-256 hex hash.
func (r *APIKeyRepo) LookupPrincipalByAPIKeyHash(ctx context.Context, keyHash string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `
		SELECT p.name FROM api_keys k
		JOIN principals p ON p.id = k.principal_id
		WHERE k.key_hash = ?
	`, keyHash).Scan(&name)
	if err != nil {
		return "", mapDBError(err)
	}
	return name, nil
}
