package repository

import (
	"context"
	"database/sql"

	"synclist-hub/internal/domain"
)

var _ domain.GroupRepository = (*GroupRepo)(nil)

// GroupRepo stores groups and group membership in SQLite.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo creates a new GroupRepo.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// Create inserts a new group.
func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user_groups (name, created_at) VALUES (?, ?)`, g.Name, now())
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a group by ID.
func (r *GroupRepo) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	var g domain.Group
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM user_groups WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &g, nil
}

// GetByName returns a group by name.
func (r *GroupRepo) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	var g domain.Group
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM user_groups WHERE name = ?`, name).
		Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &g, nil
}

// AddMember adds a principal to a group. Adding an existing member is a no-op.
func (r *GroupRepo) AddMember(ctx context.Context, groupID, principalID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO group_members (group_id, principal_id) VALUES (?, ?)`,
		groupID, principalID)
	return mapDBError(err)
}

// RemoveMember removes a principal from a group.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID, principalID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND principal_id = ?`,
		groupID, principalID)
	return mapDBError(err)
}

// GroupsForPrincipal returns every group the principal belongs to, ordered by ID.
func (r *GroupRepo) GroupsForPrincipal(ctx context.Context, principalID int64) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.created_at
		FROM user_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.principal_id = ?
		ORDER BY g.id
	`, principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
