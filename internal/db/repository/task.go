package repository

import (
	"context"
	"database/sql"
	"time"

	"synclist-hub/internal/domain"
)

var _ domain.TaskRepository = (*TaskRepo)(nil)

// TaskRepo stores task records in SQLite.
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepo creates a new TaskRepo.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = `id, name, state, created_by, resource, error, created_at, started_at, finished_at`

// Create inserts a new task record. ID and state default to a fresh UUID and
// "waiting".
func (r *TaskRepo) Create(ctx context.Context, t *domain.TaskRecord) (*domain.TaskRecord, error) {
	if t == nil {
		return nil, domain.ErrValidation("task is required")
	}
	if t.ID == "" {
		t.ID = domain.NewID()
	}
	if t.State == "" {
		t.State = domain.TaskWaiting
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, state, created_by, resource, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.Name, string(t.State), t.CreatedBy, t.Resource, now())
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetByID(ctx, t.ID)
}

// GetByID returns a task by ID.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*domain.TaskRecord, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, mapDBError(err)
	}
	return t, nil
}

// List returns a page of tasks, newest first, optionally filtered by creator.
func (r *TaskRepo) List(ctx context.Context, filter domain.TaskFilter) ([]domain.TaskRecord, int64, error) {
	where := ""
	var args []interface{}
	if filter.CreatedBy != nil {
		where = ` WHERE created_by = ?`
		args = append(args, *filter.CreatedBy)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Page.EffectiveLimit(), filter.Page.EffectiveOffset())
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.TaskRecord{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *t)
	}
	return out, total, rows.Err()
}

// UpdateState moves a task to state, stamping started_at/finished_at as the
// state requires.
func (r *TaskRepo) UpdateState(ctx context.Context, id string, state domain.TaskState, errMsg *string) error {
	ts := now()
	var (
		res sql.Result
		err error
	)
	switch {
	case state == domain.TaskRunning:
		res, err = r.db.ExecContext(ctx,
			`UPDATE tasks SET state = ?, started_at = ? WHERE id = ?`, string(state), ts, id)
	case state.Finished():
		res, err = r.db.ExecContext(ctx,
			`UPDATE tasks SET state = ?, error = ?, started_at = COALESCE(started_at, ?), finished_at = ? WHERE id = ?`,
			string(state), nullString(errMsg), ts, ts, id)
	default:
		res, err = r.db.ExecContext(ctx, `UPDATE tasks SET state = ? WHERE id = ?`, string(state), id)
	}
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("task %s not found", id)
	}
	return nil
}

// DeleteFinishedBefore removes finished tasks whose finished_at precedes
// before and returns how many were removed.
func (r *TaskRepo) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, finished_at FROM tasks WHERE finished_at IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	var expired []string
	for rows.Next() {
		var (
			id       string
			finished time.Time
		)
		if err := rows.Scan(&id, &finished); err != nil {
			_ = rows.Close()
			return 0, err
		}
		if finished.Before(before) {
			expired = append(expired, id)
		}
	}
	if err := rows.Close(); err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	var deleted int64
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, id := range expired {
			res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
			if err != nil {
				return err
			}
			n, _ := res.RowsAffected()
			deleted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func scanTask(row rowScanner) (*domain.TaskRecord, error) {
	var (
		t        domain.TaskRecord
		state    string
		errMsg   sql.NullString
		started  sql.NullTime
		finished sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Name, &state, &t.CreatedBy, &t.Resource, &errMsg, &t.CreatedAt, &started, &finished); err != nil {
		return nil, err
	}
	t.State = domain.TaskState(state)
	if errMsg.Valid {
		t.Error = &errMsg.String
	}
	if started.Valid {
		t.StartedAt = &started.Time
	}
	if finished.Valid {
		t.FinishedAt = &finished.Time
	}
	return &t, nil
}
