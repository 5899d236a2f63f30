package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"synclist-hub/internal/domain"
)

// DefaultReapSchedule runs the reaper at the top of every hour.
const DefaultReapSchedule = "@hourly"

// Reaper periodically deletes finished tasks older than a retention window.
type Reaper struct {
	cron      *cron.Cron
	tasks     domain.TaskRepository
	retention time.Duration
	schedule  string
	now       func() time.Time
	logger    *slog.Logger
}

// NewReaper creates a Reaper. An empty schedule means DefaultReapSchedule.
func NewReaper(tasks domain.TaskRepository, retention time.Duration, schedule string, logger *slog.Logger) *Reaper {
	if schedule == "" {
		schedule = DefaultReapSchedule
	}
	return &Reaper{
		cron:      cron.New(),
		tasks:     tasks,
		retention: retention,
		schedule:  schedule,
		now:       time.Now,
		logger:    logger.With("component", "task-reaper"),
	}
}

// Start registers the reap job and starts the cron scheduler.
func (r *Reaper) Start() error {
	if r.retention <= 0 {
		return fmt.Errorf("task retention must be positive, got %s", r.retention)
	}
	if _, err := r.cron.AddFunc(r.schedule, func() {
		if _, err := r.RunOnce(context.Background()); err != nil {
			r.logger.Warn("task reap failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid reap schedule %q: %w", r.schedule, err)
	}
	r.cron.Start()
	r.logger.Info("task reaper started", "schedule", r.schedule, "retention", r.retention.String())
	return nil
}

// Stop stops the scheduler and waits for a running reap to finish.
func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("task reaper stopped")
}

// RunOnce deletes every task that finished before now minus retention.
func (r *Reaper) RunOnce(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.retention)
	n, err := r.tasks.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete tasks finished before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if n > 0 {
		r.logger.Info("reaped finished tasks", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
