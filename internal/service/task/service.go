// Package task implements the access-control layer over the task store.
// Every operation is scoped to the calling principal: a caller can only
// observe or mutate rows whose owner_id matches their own user ID. The
// package ships two interchangeable implementations of the same contract:
// a structured path whose queries are owner-filtered before they reach the
// database, and a direct-statement path issuing explicit parameterized SQL
// keyed on (id, owner_id). Both must produce identical authorization
// outcomes for every operation.
package task

import (
	"context"
	"errors"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
)

// DefaultListLimit caps the default listing at the caller's most recent
// tasks. It is a display cap, not a pagination mechanism: there is no way
// to fetch older tasks through List.
const DefaultListLimit = 4

// Common error types for the task service. Ownership failures surface as
// ErrTaskNotFound so the existence of another user's task is never revealed.
var (
	// ErrTaskNotFound indicates that no task visible to the caller matches
	// the given ID. It covers both a missing row and a row owned by
	// someone else.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyTitle indicates a title update without a usable title. It is
	// detected before any store access.
	ErrEmptyTitle = errors.New("title is required")

	// ErrInconsistentUpdate indicates that an existence check passed but
	// the subsequent mutation touched zero rows. Both statements run in
	// the same transaction against the same compound key, so this signals
	// store corruption rather than a race.
	ErrInconsistentUpdate = errors.New("task passed existence check but update affected no rows")
)

// UpdateParams carries the mutable fields of a standard update. Nil fields
// are left unchanged; owner, status, and timestamps are never
// caller-settable.
type UpdateParams struct {
	Title    *string
	Duration *time.Duration
}

// Service is the owner-scoped contract both access paths implement.
type Service interface {
	// List returns up to DefaultListLimit of the caller's tasks, newest
	// created_at first. A caller with no tasks gets an empty slice.
	List(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// Create stores a new task owned by the caller. The owner is forced to
	// ownerID regardless of anything the transport layer parsed; a zero
	// duration falls back to domain.DefaultTaskDuration.
	// Returns domain validation errors for empty titles or durations under
	// one minute.
	Create(ctx context.Context, ownerID int64, title string, duration time.Duration) (*domain.Task, error)

	// Get returns the task only if the caller owns it, ErrTaskNotFound
	// otherwise.
	Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)

	// Update applies the given field changes to the caller's task and
	// returns the updated row. Returns ErrTaskNotFound for missing or
	// foreign rows and domain validation errors for invalid fields.
	Update(ctx context.Context, ownerID, taskID int64, params UpdateParams) (*domain.Task, error)

	// UpdateTitle sets only the title of the caller's task, refreshing
	// updated_at. Returns ErrEmptyTitle before any store access when the
	// title is empty, ErrTaskNotFound for missing or foreign rows.
	UpdateTitle(ctx context.Context, ownerID, taskID int64, title string) error

	// Delete permanently removes the caller's task. Returns
	// ErrTaskNotFound for missing or foreign rows, leaving the store
	// unchanged.
	Delete(ctx context.Context, ownerID, taskID int64) error
}
