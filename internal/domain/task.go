package domain

import "time"

// TaskState represents the lifecycle state of a task record.
type TaskState string

// Task lifecycle states.
const (
	TaskWaiting   TaskState = "waiting"
	TaskRunning   TaskState = "running"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "failed"
	TaskCanceled  TaskState = "canceled"
)

// Finished reports whether the state is terminal.
func (s TaskState) Finished() bool {
	return s == TaskCompleted || s == TaskFailed || s == TaskCanceled
}

// TaskCurateSynclist is the task recorded when a synclist changes and its
// repository needs re-curation.
const TaskCurateSynclist = "curate-synclist"

// TaskRecord is an asynchronous unit of work tracked by the service. Tasks
// are recorded and listed here; execution belongs to an external worker.
type TaskRecord struct {
	ID         string
	Name       string
	State      TaskState
	CreatedBy  string
	Resource   string
	Error      *string
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	CreatedBy *string
	Page      PageRequest
}
