// Package reporter runs the periodic task report job. On a fixed interval it
// looks up a configured user and logs that user's tasks, mirroring what an
// operator would see in the task list.
package reporter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// Reporter periodically logs the tasks of a configured user.
type Reporter struct {
	users        store.UserStore
	tasks        store.TaskStore
	targetUserID int64
	interval     time.Duration
	logger       *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Reporter. The interval must be positive.
func New(
	users store.UserStore,
	tasks store.TaskStore,
	targetUserID int64,
	interval time.Duration,
	logger *slog.Logger,
) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Reporter{
		users:        users,
		tasks:        tasks,
		targetUserID: targetUserID,
		interval:     interval,
		logger:       logger.With(slog.String("component", "task_reporter")),
	}
}

// Start launches the reporting loop in a background goroutine. The first
// report runs after one full interval. Calling Start on a running reporter
// is a no-op.
func (r *Reporter) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	r.logger.Info("task reporter started",
		slog.Int64("target_user_id", r.targetUserID),
		slog.Duration("interval", r.interval))

	go r.run(ctx)
}

// Stop halts the reporting loop and waits for the current tick to finish.
// Safe to call on a reporter that was never started.
func (r *Reporter) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
	r.logger.Info("task reporter stopped")
}

func (r *Reporter) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

// report logs one snapshot of the target user's tasks. Failures are logged
// and swallowed so one bad tick never stops the loop.
func (r *Reporter) report(ctx context.Context) {
	user, err := r.users.GetByID(ctx, r.targetUserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			r.logger.Info("report skipped: user not found",
				slog.Int64("target_user_id", r.targetUserID))
			return
		}
		r.logger.Error("report failed: user lookup error",
			slog.Int64("target_user_id", r.targetUserID),
			slog.String("error", err.Error()))
		return
	}

	// The report covers everything the user owns, not just the capped
	// view the list endpoint serves.
	tasks, err := r.tasks.ListByOwner(ctx, user.ID, 0)
	if err != nil {
		r.logger.Error("report failed: task listing error",
			slog.Int64("target_user_id", user.ID),
			slog.String("error", err.Error()))
		return
	}

	if len(tasks) == 0 {
		r.logger.Info("user has no tasks",
			slog.Int64("user_id", user.ID),
			slog.String("email", user.Email))
		return
	}

	r.logger.Info("task report",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
		slog.Int("task_count", len(tasks)))

	for _, t := range tasks {
		r.logger.Info("task",
			slog.Int64("task_id", t.ID),
			slog.String("title", t.Title),
			slog.String("duration", domain.FormatClockDuration(t.Duration)),
			slog.String("status", string(t.Status)),
			slog.Time("created_at", t.CreatedAt))
	}
}
