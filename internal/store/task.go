package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
)

// TaskStore defines the interface for task data persistence. It is a keyed
// store: the single-column methods address rows by task ID alone, while the
// ForOwner variants address rows by the compound (id, owner_id) key so a row
// owned by another user is invisible to the statement itself rather than
// filtered after the fact. Ownership policy (which key a caller is allowed
// to use) lives in the service layer, not here.
type TaskStore interface {
	// Insert saves a new task to the store. The database assigns the ID and
	// the created_at/updated_at timestamps, which are written back into the
	// task. Returns ErrInvalidEntity wrapping the domain validation error if
	// the task data is invalid (empty title, duration under one minute).
	Insert(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID regardless of owner.
	// Returns ErrTaskNotFound if the task does not exist. Reserved for
	// trusted internal callers; request-facing code uses GetForOwner.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetForOwner retrieves a task by the compound (id, owner_id) key.
	// Returns ErrTaskNotFound if no row matches both, whether the task is
	// missing or owned by someone else.
	GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error)

	// ListByOwner returns the owner's tasks ordered newest created_at first.
	// A limit <= 0 means no cap. Returns an empty slice, never nil, when
	// the owner has no tasks.
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Task, error)

	// UpdateTitle sets the title and refreshes updated_at for the task with
	// the given ID regardless of owner. Returns the number of rows updated
	// (0 if the task does not exist).
	UpdateTitle(ctx context.Context, id int64, title string) (int64, error)

	// UpdateForOwner sets the title and duration and refreshes updated_at
	// using the compound (id, owner_id) key. Status, owner, and the
	// remaining timestamps are immutable through this method. Returns the
	// number of rows updated.
	UpdateForOwner(ctx context.Context, id, ownerID int64, title string, duration time.Duration) (int64, error)

	// UpdateTitleForOwner sets the title and refreshes updated_at using the
	// compound (id, owner_id) key in the update predicate itself, so the
	// mutation can never touch a row outside the owner even under
	// concurrent modification. Returns the number of rows updated.
	UpdateTitleForOwner(ctx context.Context, id, ownerID int64, title string) (int64, error)

	// Delete removes the task with the given ID regardless of owner.
	// Returns the number of rows deleted. Deletion is permanent.
	Delete(ctx context.Context, id int64) (int64, error)

	// DeleteForOwner removes the task matching the compound (id, owner_id)
	// key. Returns the number of rows deleted (0 for missing or foreign
	// rows, leaving the store unchanged).
	DeleteForOwner(ctx context.Context, id, ownerID int64) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically via RunInTransaction.
	WithTx(tx *sql.Tx) TaskStore
}
