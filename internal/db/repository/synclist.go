package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"synclist-hub/internal/domain"
)

var _ domain.SynclistRepository = (*SynclistRepo)(nil)

// SynclistRepo stores synclists, their namespace sets and their group
// permission bundles in SQLite.
type SynclistRepo struct {
	db *sql.DB
}

// NewSynclistRepo creates a new SynclistRepo.
func NewSynclistRepo(db *sql.DB) *SynclistRepo {
	return &SynclistRepo{db: db}
}

const synclistColumns = `id, name, repository_id, upstream_repository_id, policy, collections_json, created_at, updated_at`

// Create inserts a synclist with its namespaces and group permissions in one
// transaction. Groups with an empty permission list are not stored.
func (r *SynclistRepo) Create(ctx context.Context, s *domain.Synclist) (*domain.Synclist, error) {
	collections, err := encodeCollections(s.Collections)
	if err != nil {
		return nil, err
	}

	var id int64
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		ts := now()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO synclists (name, repository_id, upstream_repository_id, policy, collections_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, s.Name, s.Repository, nullString(s.UpstreamRepository), string(s.Policy), collections, ts, ts)
		if err != nil {
			return mapDBError(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		if err := insertNamespaces(ctx, tx, id, s.Namespaces); err != nil {
			return err
		}
		return insertGroupPermissions(ctx, tx, id, s.Groups)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a fully hydrated synclist.
func (r *SynclistRepo) GetByID(ctx context.Context, id int64) (*domain.Synclist, error) {
	s, err := scanSynclist(r.db.QueryRowContext(ctx,
		`SELECT `+synclistColumns+` FROM synclists WHERE id = ?`, id))
	if err != nil {
		return nil, mapDBError(err)
	}
	if err := r.hydrate(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns a page of all synclists ordered by ID.
func (r *SynclistRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Synclist, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM synclists`).Scan(&total); err != nil {
		return nil, 0, err
	}

	ids, err := r.queryIDs(ctx,
		`SELECT id FROM synclists ORDER BY id LIMIT ? OFFSET ?`,
		page.EffectiveLimit(), page.EffectiveOffset())
	if err != nil {
		return nil, 0, err
	}
	out, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListForGroups returns every synclist on which at least one of groupIDs
// holds a permission, ordered by ID.
func (r *SynclistRepo) ListForGroups(ctx context.Context, groupIDs []int64) ([]domain.Synclist, error) {
	if len(groupIDs) == 0 {
		return []domain.Synclist{}, nil
	}
	args := make([]interface{}, len(groupIDs))
	for i, id := range groupIDs {
		args[i] = id
	}
	ids, err := r.queryIDs(ctx, `
		SELECT DISTINCT synclist_id FROM synclist_group_permissions
		WHERE group_id IN (`+placeholders(len(groupIDs))+`)
		ORDER BY synclist_id
	`, args...)
	if err != nil {
		return nil, err
	}
	return r.getMany(ctx, ids)
}

// Update replaces the mutable fields, namespaces and group bundle of a
// synclist in one transaction. The name is never changed.
func (r *SynclistRepo) Update(ctx context.Context, s *domain.Synclist) (*domain.Synclist, error) {
	collections, err := encodeCollections(s.Collections)
	if err != nil {
		return nil, err
	}

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE synclists
			SET repository_id = ?, upstream_repository_id = ?, policy = ?, collections_json = ?, updated_at = ?
			WHERE id = ?
		`, s.Repository, nullString(s.UpstreamRepository), string(s.Policy), collections, now(), s.ID)
		if err != nil {
			return mapDBError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound("synclist %d not found", s.ID)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM synclist_namespaces WHERE synclist_id = ?`, s.ID); err != nil {
			return err
		}
		if err := insertNamespaces(ctx, tx, s.ID, s.Namespaces); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM synclist_group_permissions WHERE synclist_id = ?`, s.ID); err != nil {
			return err
		}
		return insertGroupPermissions(ctx, tx, s.ID, s.Groups)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, s.ID)
}

// Delete removes a synclist. Namespaces and permissions cascade.
func (r *SynclistRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM synclists WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("synclist %d not found", id)
	}
	return nil
}

func (r *SynclistRepo) queryIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SynclistRepo) getMany(ctx context.Context, ids []int64) ([]domain.Synclist, error) {
	out := make([]domain.Synclist, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load synclist %d: %w", id, err)
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *SynclistRepo) hydrate(ctx context.Context, s *domain.Synclist) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT namespace FROM synclist_namespaces WHERE synclist_id = ? ORDER BY namespace`, s.ID)
	if err != nil {
		return err
	}
	s.Namespaces = []string{}
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			_ = rows.Close()
			return err
		}
		s.Namespaces = append(s.Namespaces, ns)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	groups, err := r.groupPermissions(ctx, s.ID)
	if err != nil {
		return err
	}
	s.Groups = groups
	return nil
}

// groupPermissions materializes the (group, synclist) -> permissions mapping.
func (r *SynclistRepo) groupPermissions(ctx context.Context, synclistID int64) ([]domain.GroupPermissions, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.name, p.permission
		FROM synclist_group_permissions p
		JOIN user_groups g ON g.id = p.group_id
		WHERE p.synclist_id = ?
		ORDER BY g.id, p.permission
	`, synclistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.GroupPermissions{}
	for rows.Next() {
		var (
			groupID    int64
			groupName  string
			permission string
		)
		if err := rows.Scan(&groupID, &groupName, &permission); err != nil {
			return nil, err
		}
		if n := len(out); n > 0 && out[n-1].GroupID == groupID {
			out[n-1].Permissions = append(out[n-1].Permissions, permission)
			continue
		}
		out = append(out, domain.GroupPermissions{
			GroupID:     groupID,
			GroupName:   groupName,
			Permissions: []string{permission},
		})
	}
	return out, rows.Err()
}

func insertNamespaces(ctx context.Context, tx *sql.Tx, synclistID int64, namespaces []string) error {
	for _, ns := range domain.NormalizeNamespaces(namespaces) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO synclist_namespaces (synclist_id, namespace) VALUES (?, ?)`,
			synclistID, ns); err != nil {
			return fmt.Errorf("insert namespace %q: %w", ns, mapDBError(err))
		}
	}
	return nil
}

func insertGroupPermissions(ctx context.Context, tx *sql.Tx, synclistID int64, groups []domain.GroupPermissions) error {
	for _, g := range groups {
		for _, perm := range domain.NormalizePermissions(g.Permissions) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO synclist_group_permissions (synclist_id, group_id, permission) VALUES (?, ?, ?)`,
				synclistID, g.GroupID, perm); err != nil {
				return fmt.Errorf("insert permission %q for group %d: %w", perm, g.GroupID, mapDBError(err))
			}
		}
	}
	return nil
}

func scanSynclist(row rowScanner) (*domain.Synclist, error) {
	var (
		s           domain.Synclist
		upstream    sql.NullString
		policy      string
		collections string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Repository, &upstream, &policy, &collections, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if upstream.Valid {
		s.UpstreamRepository = &upstream.String
	}
	s.Policy = domain.SynclistPolicy(policy)
	s.Collections = []string{}
	if err := json.Unmarshal([]byte(collections), &s.Collections); err != nil {
		return nil, fmt.Errorf("decode collections of synclist %d: %w", s.ID, err)
	}
	return &s, nil
}

func encodeCollections(collections []string) (string, error) {
	if collections == nil {
		collections = []string{}
	}
	b, err := json.Marshal(collections)
	if err != nil {
		return "", fmt.Errorf("encode collections: %w", err)
	}
	return string(b), nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
