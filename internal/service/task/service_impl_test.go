package task_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/service/task"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// mockTaskStore is a function-field mock of store.TaskStore.
type mockTaskStore struct {
	insertFn              func(ctx context.Context, t *domain.Task) error
	getByIDFn             func(ctx context.Context, id int64) (*domain.Task, error)
	getForOwnerFn         func(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	listByOwnerFn         func(ctx context.Context, ownerID int64, limit int) ([]*domain.Task, error)
	updateTitleFn         func(ctx context.Context, id int64, title string) (int64, error)
	updateTitleForOwnerFn func(ctx context.Context, id, ownerID int64, title string) (int64, error)
	updateForOwnerFn      func(ctx context.Context, id, ownerID int64, title string, d time.Duration) (int64, error)
	deleteFn              func(ctx context.Context, id int64) (int64, error)
	deleteForOwnerFn      func(ctx context.Context, id, ownerID int64) (int64, error)
}

var _ store.TaskStore = (*mockTaskStore)(nil)

func (m *mockTaskStore) Insert(ctx context.Context, t *domain.Task) error {
	return m.insertFn(ctx, t)
}

func (m *mockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTaskStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	return m.getForOwnerFn(ctx, id, ownerID)
}

func (m *mockTaskStore) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Task, error) {
	return m.listByOwnerFn(ctx, ownerID, limit)
}

func (m *mockTaskStore) UpdateTitle(ctx context.Context, id int64, title string) (int64, error) {
	return m.updateTitleFn(ctx, id, title)
}

func (m *mockTaskStore) UpdateTitleForOwner(ctx context.Context, id, ownerID int64, title string) (int64, error) {
	return m.updateTitleForOwnerFn(ctx, id, ownerID, title)
}

func (m *mockTaskStore) UpdateForOwner(ctx context.Context, id, ownerID int64, title string, d time.Duration) (int64, error) {
	return m.updateForOwnerFn(ctx, id, ownerID, title, d)
}

func (m *mockTaskStore) Delete(ctx context.Context, id int64) (int64, error) {
	return m.deleteFn(ctx, id)
}

func (m *mockTaskStore) DeleteForOwner(ctx context.Context, id, ownerID int64) (int64, error) {
	return m.deleteForOwnerFn(ctx, id, ownerID)
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return m }

func testTask(id, ownerID int64, title string) *domain.Task {
	return &domain.Task{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Duration:  time.Hour,
		Status:    domain.TaskStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestServiceList(t *testing.T) {
	t.Parallel()

	t.Run("passes the display cap to the store", func(t *testing.T) {
		t.Parallel()

		var gotLimit int
		svc := task.NewService(&mockTaskStore{
			listByOwnerFn: func(ctx context.Context, ownerID int64, limit int) ([]*domain.Task, error) {
				gotLimit = limit
				return []*domain.Task{testTask(1, ownerID, "Test Task 1")}, nil
			},
		}, nil)

		tasks, err := svc.List(context.Background(), 1)
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
		assert.Equal(t, task.DefaultListLimit, gotLimit)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			listByOwnerFn: func(ctx context.Context, ownerID int64, limit int) ([]*domain.Task, error) {
				return []*domain.Task{}, nil
			},
		}, nil)

		tasks, err := svc.List(context.Background(), 42)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("owner comes from the caller", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			insertFn: func(ctx context.Context, tk *domain.Task) error {
				tk.ID = 7
				return nil
			},
		}, nil)

		created, err := svc.Create(context.Background(), 3, "New Test Task", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(3), created.OwnerID)
		assert.Equal(t, domain.TaskStatusPending, created.Status)
	})

	t.Run("zero duration defaults to one hour", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			insertFn: func(ctx context.Context, tk *domain.Task) error { return nil },
		}, nil)

		created, err := svc.Create(context.Background(), 3, "Defaulted", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultTaskDuration, created.Duration)
	})

	t.Run("validation failures never reach the store", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			insertFn: func(ctx context.Context, tk *domain.Task) error {
				t.Fatal("insert should not be called")
				return nil
			},
		}, nil)

		_, err := svc.Create(context.Background(), 3, "", time.Hour)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)

		_, err = svc.Create(context.Background(), 3, "Too short", 30*time.Second)
		assert.ErrorIs(t, err, domain.ErrTaskDurationShort)
	})
}

func TestServiceGet(t *testing.T) {
	t.Parallel()

	t.Run("foreign row reports not found", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}, nil)

		_, err := svc.Get(context.Background(), 1, 99)
		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})

	t.Run("owned row is returned", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
				return testTask(id, ownerID, "Mine"), nil
			},
		}, nil)

		got, err := svc.Get(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)
		assert.Equal(t, int64(1), got.OwnerID)
	})
}

func TestServiceUpdateTitle(t *testing.T) {
	t.Parallel()

	t.Run("empty title rejected before store access", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			updateTitleForOwnerFn: func(ctx context.Context, id, ownerID int64, title string) (int64, error) {
				t.Fatal("store should not be touched")
				return 0, nil
			},
		}, nil)

		assert.ErrorIs(t, svc.UpdateTitle(context.Background(), 1, 5, ""), task.ErrEmptyTitle)
		assert.ErrorIs(t, svc.UpdateTitle(context.Background(), 1, 5, "   "), task.ErrEmptyTitle)
	})

	t.Run("zero affected rows reports not found", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			updateTitleForOwnerFn: func(ctx context.Context, id, ownerID int64, title string) (int64, error) {
				return 0, nil
			},
		}, nil)

		assert.ErrorIs(t, svc.UpdateTitle(context.Background(), 1, 99, "Hack"), task.ErrTaskNotFound)
	})

	t.Run("successful update", func(t *testing.T) {
		t.Parallel()

		var gotTitle string
		svc := task.NewService(&mockTaskStore{
			updateTitleForOwnerFn: func(ctx context.Context, id, ownerID int64, title string) (int64, error) {
				gotTitle = title
				return 1, nil
			},
		}, nil)

		require.NoError(t, svc.UpdateTitle(context.Background(), 1, 5, "Updated Title"))
		assert.Equal(t, "Updated Title", gotTitle)
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	title := "Renamed"
	dur := 2 * time.Hour

	t.Run("applies only provided fields", func(t *testing.T) {
		t.Parallel()

		stored := testTask(5, 1, "Original")
		svc := task.NewService(&mockTaskStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
				copy := *stored
				return &copy, nil
			},
			updateForOwnerFn: func(ctx context.Context, id, ownerID int64, newTitle string, d time.Duration) (int64, error) {
				stored.Title = newTitle
				stored.Duration = d
				return 1, nil
			},
		}, nil)

		updated, err := svc.Update(context.Background(), 1, 5, task.UpdateParams{Title: &title, Duration: &dur})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, 2*time.Hour, updated.Duration)
	})

	t.Run("invalid duration rejected", func(t *testing.T) {
		t.Parallel()

		short := 10 * time.Second
		svc := task.NewService(&mockTaskStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
				return testTask(5, 1, "Original"), nil
			},
			updateForOwnerFn: func(ctx context.Context, id, ownerID int64, newTitle string, d time.Duration) (int64, error) {
				t.Fatal("store should not be touched")
				return 0, nil
			},
		}, nil)

		_, err := svc.Update(context.Background(), 1, 5, task.UpdateParams{Duration: &short})
		assert.ErrorIs(t, err, domain.ErrTaskDurationShort)
	})

	t.Run("foreign row reports not found", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}, nil)

		_, err := svc.Update(context.Background(), 2, 5, task.UpdateParams{Title: &title})
		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	t.Run("zero affected rows reports not found", func(t *testing.T) {
		t.Parallel()

		svc := task.NewService(&mockTaskStore{
			deleteForOwnerFn: func(ctx context.Context, id, ownerID int64) (int64, error) {
				return 0, nil
			},
		}, nil)

		assert.ErrorIs(t, svc.Delete(context.Background(), 1, 99), task.ErrTaskNotFound)
	})

	t.Run("successful delete", func(t *testing.T) {
		t.Parallel()

		var deletedID, deletedOwner int64
		svc := task.NewService(&mockTaskStore{
			deleteForOwnerFn: func(ctx context.Context, id, ownerID int64) (int64, error) {
				deletedID, deletedOwner = id, ownerID
				return 1, nil
			},
		}, nil)

		require.NoError(t, svc.Delete(context.Background(), 1, 5))
		assert.Equal(t, int64(5), deletedID)
		assert.Equal(t, int64(1), deletedOwner)
	})
}
