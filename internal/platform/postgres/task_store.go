package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// taskColumns is the select list shared by every task query so rows always
// scan the same way.
const taskColumns = "id, owner_id, title, duration_seconds, status, created_at, updated_at, completed_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Insert implements store.TaskStore.Insert
// It saves a new task and writes the database-assigned ID and timestamps
// back into the task. Returns store.ErrInvalidEntity wrapping the domain
// validation error if the task data is invalid.
func (s *PostgresTaskStore) Insert(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during insert",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", task.OwnerID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (owner_id, title, duration_seconds, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.OwnerID,
		task.Title,
		int64(task.Duration/time.Second),
		task.Status,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task insert",
				slog.String("error", err.Error()),
				slog.Int64("owner_id", task.OwnerID))
			return fmt.Errorf("%w: owner with ID %d not found",
				store.ErrInvalidEntity, task.OwnerID)
		}

		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", task.OwnerID))
		return mapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID regardless of owner.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1", taskColumns)
	return s.getOne(ctx, query, id)
}

// GetForOwner implements store.TaskStore.GetForOwner
// It retrieves a task by the compound (id, owner_id) key. A task owned by
// another user does not match the predicate, so the statement itself hides
// foreign rows.
// Returns store.ErrTaskNotFound if no row matches both.
func (s *PostgresTaskStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1 AND owner_id = $2", taskColumns)
	return s.getOne(ctx, query, id, ownerID)
}

// getOne runs a single-row task query and maps the result.
func (s *PostgresTaskStore) getOne(ctx context.Context, query string, args ...any) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	return task, nil
}

// ListByOwner implements store.TaskStore.ListByOwner
// It returns the owner's tasks ordered newest created_at first. A limit <= 0
// means no cap. Returns an empty slice, never nil, when there are no rows.
func (s *PostgresTaskStore) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC, id DESC",
		taskColumns,
	)
	args := []any{ownerID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks by owner",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, mapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, mapError(err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	return tasks, nil
}

// UpdateTitle implements store.TaskStore.UpdateTitle
func (s *PostgresTaskStore) UpdateTitle(ctx context.Context, id int64, title string) (int64, error) {
	return s.execCount(ctx,
		"UPDATE tasks SET title = $1, updated_at = now() WHERE id = $2",
		title, id)
}

// UpdateForOwner implements store.TaskStore.UpdateForOwner
func (s *PostgresTaskStore) UpdateForOwner(ctx context.Context, id, ownerID int64, title string, duration time.Duration) (int64, error) {
	return s.execCount(ctx,
		"UPDATE tasks SET title = $1, duration_seconds = $2, updated_at = now() WHERE id = $3 AND owner_id = $4",
		title, int64(duration/time.Second), id, ownerID)
}

// UpdateTitleForOwner implements store.TaskStore.UpdateTitleForOwner
// The owner_id condition is part of the same atomic statement as the
// mutation, so the update cannot touch a foreign row even under concurrent
// modification.
func (s *PostgresTaskStore) UpdateTitleForOwner(ctx context.Context, id, ownerID int64, title string) (int64, error) {
	return s.execCount(ctx,
		"UPDATE tasks SET title = $1, updated_at = now() WHERE id = $2 AND owner_id = $3",
		title, id, ownerID)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) (int64, error) {
	return s.execCount(ctx, "DELETE FROM tasks WHERE id = $1", id)
}

// DeleteForOwner implements store.TaskStore.DeleteForOwner
func (s *PostgresTaskStore) DeleteForOwner(ctx context.Context, id, ownerID int64) (int64, error) {
	return s.execCount(ctx, "DELETE FROM tasks WHERE id = $1 AND owner_id = $2", id, ownerID)
}

// execCount executes a mutation and returns the number of rows affected.
func (s *PostgresTaskStore) execCount(ctx context.Context, query string, args ...any) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to execute task mutation",
			slog.String("error", err.Error()))
		return 0, mapError(err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()))
		return 0, mapError(err)
	}

	return count, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTask.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask maps one row onto a domain.Task.
func scanTask(row rowScanner) (*domain.Task, error) {
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
