package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// ownerPredicate is the compound-key condition both mutating statements of
// the direct path share with their existence checks. Keeping owner_id in
// the mutation predicate itself means no row outside the caller's ownership
// can be written even if the row changes between statements.
const ownerPredicate = "id = $1 AND owner_id = $2"

// rawTaskColumns mirrors the flattened field list the raw retrieve endpoint
// exposes.
const rawTaskColumns = "id, owner_id, title, duration_seconds, status, created_at, updated_at, completed_at"

// Verify interface compliance at compile time
var _ Service = (*rawService)(nil)

// rawService is the direct-statement implementation of Service. Instead of
// going through the store's query methods it issues explicit parameterized
// SQL; mutations pair an existence check with a compound-key statement
// inside one transaction. It must be behaviorally indistinguishable from
// the structured path for every operation.
type rawService struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRawService creates the direct-statement task service.
func NewRawService(db *sql.DB, logger *slog.Logger) Service {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &rawService{
		db:     db,
		logger: logger.With(slog.String("component", "task_raw_service")),
	}
}

// List implements Service.List with a single owner-keyed statement.
func (s *rawService) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2",
		rawTaskColumns,
	)

	rows, err := s.db.QueryContext(ctx, query, ownerID, DefaultListLimit)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanRawTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}

	return tasks, nil
}

// Create implements Service.Create. The owner placed in the statement is
// always the authenticated principal.
func (s *rawService) Create(ctx context.Context, ownerID int64, title string, duration time.Duration) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, strings.TrimSpace(title), duration)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO tasks (owner_id, title, duration_seconds, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		task.OwnerID, task.Title, int64(task.Duration/time.Second), task.Status,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Get implements Service.Get with one compound-key statement. A row owned
// by another user never matches, so the caller cannot distinguish it from
// a missing row.
func (s *rawService) Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM tasks WHERE %s", rawTaskColumns, ownerPredicate)

	task, err := scanRawTask(s.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// Update implements Service.Update: fetch, apply, and mutate inside one
// transaction, every statement carrying the compound key.
func (s *rawService) Update(ctx context.Context, ownerID, taskID int64, params UpdateParams) (*domain.Task, error) {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := fmt.Sprintf("SELECT %s FROM tasks WHERE %s", rawTaskColumns, ownerPredicate)

		current, err := scanRawTask(tx.QueryRowContext(ctx, query, taskID, ownerID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to get task: %w", err)
		}

		if params.Title != nil {
			current.Title = strings.TrimSpace(*params.Title)
		}
		if params.Duration != nil {
			current.Duration = *params.Duration
		}

		if err := current.Validate(); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			"UPDATE tasks SET title = $3, duration_seconds = $4, updated_at = now() WHERE "+ownerPredicate,
			taskID, ownerID, current.Title, int64(current.Duration/time.Second))
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		count, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if count == 0 {
			return ErrInconsistentUpdate
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-read so the response carries the database-assigned updated_at.
	return s.Get(ctx, ownerID, taskID)
}

// UpdateTitle implements Service.UpdateTitle: an explicit existence check
// on the compound key followed by the mutation with the same key, both in
// one transaction. Zero rows after a passed check cannot come from a race
// and is reported as an internal inconsistency.
func (s *rawService) UpdateTitle(ctx context.Context, ownerID, taskID int64, title string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM tasks WHERE "+ownerPredicate,
			taskID, ownerID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to check task existence: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			"UPDATE tasks SET title = $3, updated_at = now() WHERE "+ownerPredicate,
			taskID, ownerID, title)
		if err != nil {
			return fmt.Errorf("failed to update task title: %w", err)
		}

		count, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if count == 0 {
			return ErrInconsistentUpdate
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInconsistentUpdate) {
			log.Error("task vanished between existence check and update",
				slog.Int64("task_id", taskID),
				slog.Int64("owner_id", ownerID))
		}
		return err
	}

	return nil
}

// Delete implements Service.Delete with a single compound-key statement.
func (s *rawService) Delete(ctx context.Context, ownerID, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE "+ownerPredicate,
		taskID, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return fmt.Errorf("failed to delete task: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if count == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// scanRawTask maps one row of rawTaskColumns onto a domain.Task.
func scanRawTask(row interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	var (
		task            domain.Task
		durationSeconds int64
		status          string
		completedAt     sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&durationSeconds,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Duration = time.Duration(durationSeconds) * time.Second
	task.Status = domain.TaskStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}

	return &task, nil
}
