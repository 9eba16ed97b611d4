package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl is the structured-path implementation of Service. Each
// operation goes through the store's owner-filtered queries, so the
// ownership predicate is part of the query itself and rows belonging to
// other users are structurally invisible rather than filtered after the
// fact.
type serviceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewService creates the structured-path task service.
func NewService(tasks store.TaskStore, logger *slog.Logger) Service {
	if tasks == nil {
		panic("tasks store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// List implements Service.List.
func (s *serviceImpl) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.ListByOwner(ctx, ownerID, DefaultListLimit)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Create implements Service.Create. The owner comes exclusively from the
// authenticated principal; no request field can override it.
func (s *serviceImpl) Create(ctx context.Context, ownerID int64, title string, duration time.Duration) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, strings.TrimSpace(title), duration)
	if err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, err
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Get implements Service.Get.
func (s *serviceImpl) Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetForOwner(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
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

// Update implements Service.Update. The fetch and the mutation both carry
// the compound (id, owner_id) key, so a concurrent owner change or delete
// surfaces as ErrTaskNotFound rather than a write to a foreign row.
func (s *serviceImpl) Update(ctx context.Context, ownerID, taskID int64, params UpdateParams) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	current, err := s.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		current.Title = strings.TrimSpace(*params.Title)
	}
	if params.Duration != nil {
		current.Duration = *params.Duration
	}

	if err := current.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, err
	}

	count, err := s.tasks.UpdateForOwner(ctx, taskID, ownerID, current.Title, current.Duration)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if count == 0 {
		// Deleted between fetch and update; the row is simply gone.
		return nil, ErrTaskNotFound
	}

	return s.Get(ctx, ownerID, taskID)
}

// UpdateTitle implements Service.UpdateTitle. The empty-title check runs
// before any store access; the update is a single owner-predicated
// statement, so zero affected rows simply means no visible task.
func (s *serviceImpl) UpdateTitle(ctx context.Context, ownerID, taskID int64, title string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}

	count, err := s.tasks.UpdateTitleForOwner(ctx, taskID, ownerID, title)
	if err != nil {
		log.Error("failed to update task title",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return fmt.Errorf("failed to update task title: %w", err)
	}
	if count == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// Delete implements Service.Delete.
func (s *serviceImpl) Delete(ctx context.Context, ownerID, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	count, err := s.tasks.DeleteForOwner(ctx, taskID, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if count == 0 {
		return ErrTaskNotFound
	}

	log.Info("task deleted",
		slog.Int64("task_id", taskID),
		slog.Int64("owner_id", ownerID))
	return nil
}
