package repository

import (
	"context"
	"database/sql"

	"synclist-hub/internal/domain"
)

var _ domain.PrincipalRepository = (*PrincipalRepo)(nil)

// PrincipalRepo stores principals in SQLite.
type PrincipalRepo struct {
	db *sql.DB
}

// NewPrincipalRepo creates a new PrincipalRepo.
func NewPrincipalRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db}
}

// Create inserts a new principal.
func (r *PrincipalRepo) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO principals (name, is_admin, created_at) VALUES (?, ?, ?)`,
		p.Name, boolToInt(p.IsAdmin), now())
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a principal by ID.
func (r *PrincipalRepo) GetByID(ctx context.Context, id int64) (*domain.Principal, error) {
	return r.getOne(ctx, `SELECT id, name, is_admin, created_at FROM principals WHERE id = ?`, id)
}

// GetByName returns a principal by name.
func (r *PrincipalRepo) GetByName(ctx context.Context, name string) (*domain.Principal, error) {
	return r.getOne(ctx, `SELECT id, name, is_admin, created_at FROM principals WHERE name = ?`, name)
}

// List returns a page of principals ordered by ID.
func (r *PrincipalRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Principal, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM principals`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, is_admin, created_at FROM principals ORDER BY id LIMIT ? OFFSET ?`,
		page.EffectiveLimit(), page.EffectiveOffset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *PrincipalRepo) getOne(ctx context.Context, query string, arg interface{}) (*domain.Principal, error) {
	p, err := scanPrincipal(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, mapDBError(err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrincipal(row rowScanner) (*domain.Principal, error) {
	var p domain.Principal
	var isAdmin int64
	if err := row.Scan(&p.ID, &p.Name, &isAdmin, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.IsAdmin = isAdmin != 0
	return &p, nil
}
