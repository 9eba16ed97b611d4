package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the completion state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Duration bounds for a task.
const (
	// MinTaskDuration is the shortest duration a task may carry.
	MinTaskDuration = time.Minute

	// DefaultTaskDuration is applied when a task is created without
	// an explicit duration.
	DefaultTaskDuration = time.Hour

	// MaxTaskTitleLength bounds the title column.
	MaxTaskTitleLength = 255
)

// Common validation errors for Task
var (
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong  = errors.New("task title cannot exceed 255 characters")
	ErrTaskDurationShort = errors.New("task duration must be at least 1 minute")
	ErrEmptyTaskOwner    = errors.New("task owner ID cannot be empty")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// Task represents a single unit of work owned by exactly one user.
// The owner is fixed at creation; IDs are assigned by the store.
type Task struct {
	ID          int64         `json:"id"`
	OwnerID     int64         `json:"owner_id"`
	Title       string        `json:"title"`
	Duration    time.Duration `json:"duration"`
	Status      TaskStatus    `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// NewTask creates a new Task owned by the given user. A zero duration is
// replaced with DefaultTaskDuration; the status starts as pending. The ID
// and timestamps are assigned by the store on insert.
// Returns an error if validation fails.
func NewTask(ownerID int64, title string, duration time.Duration) (*Task, error) {
	if duration == 0 {
		duration = DefaultTaskDuration
	}

	task := &Task{
		OwnerID:  ownerID,
		Title:    title,
		Duration: duration,
		Status:   TaskStatusPending,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.OwnerID <= 0 {
		return ErrEmptyTaskOwner
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}

	if t.Duration < MinTaskDuration {
		return ErrTaskDurationShort
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	default:
		return false
	}
}
