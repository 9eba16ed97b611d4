//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/postgres"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
	"github.com/tasktrackhq/tasktrack-api/internal/testutils"
)

func TestTaskStoreRoundTrip(t *testing.T) {
	db := testutils.NewTestDB(t)
	taskStore := postgres.NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	owner := testutils.InsertTestUser(t, db, "roundtrip@example.com")

	task, err := domain.NewTask(owner.ID, "Test Task 1", 90*time.Minute)
	require.NoError(t, err)
	require.NoError(t, taskStore.Insert(ctx, task))
	require.NotZero(t, task.ID, "insert should assign the database ID")
	require.False(t, task.CreatedAt.IsZero())

	got, err := taskStore.GetForOwner(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Task 1", got.Title)
	assert.Equal(t, 90*time.Minute, got.Duration)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestTaskStoreOwnershipPredicate(t *testing.T) {
	db := testutils.NewTestDB(t)
	taskStore := postgres.NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	alice := testutils.InsertTestUser(t, db, "alice@example.com")
	bob := testutils.InsertTestUser(t, db, "bob@example.com")
	taskID := testutils.InsertTestTask(t, db, alice.ID, "Test Task 1", time.Hour)

	t.Run("foreign read misses", func(t *testing.T) {
		_, err := taskStore.GetForOwner(ctx, taskID, bob.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("foreign update touches zero rows", func(t *testing.T) {
		count, err := taskStore.UpdateTitleForOwner(ctx, taskID, bob.ID, "Hijacked")
		require.NoError(t, err)
		assert.Zero(t, count)

		got, err := taskStore.GetByID(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, "Test Task 1", got.Title)
	})

	t.Run("foreign delete touches zero rows", func(t *testing.T) {
		count, err := taskStore.DeleteForOwner(ctx, taskID, bob.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("owner operations succeed", func(t *testing.T) {
		count, err := taskStore.UpdateTitleForOwner(ctx, taskID, alice.ID, "Renamed by owner")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = taskStore.DeleteForOwner(ctx, taskID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestTaskStoreListByOwner(t *testing.T) {
	db := testutils.NewTestDB(t)
	taskStore := postgres.NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	owner := testutils.InsertTestUser(t, db, "lister@example.com")
	other := testutils.InsertTestUser(t, db, "other@example.com")

	for i := 1; i <= 6; i++ {
		testutils.InsertTestTask(t, db, owner.ID, "Owned "+string(rune('0'+i)), time.Hour)
	}
	testutils.InsertTestTask(t, db, other.ID, "Foreign", time.Hour)

	t.Run("cap keeps only the newest", func(t *testing.T) {
		tasks, err := taskStore.ListByOwner(ctx, owner.ID, 4)
		require.NoError(t, err)
		require.Len(t, tasks, 4)

		// Newest first; ties on created_at break by descending id.
		for i := 1; i < len(tasks); i++ {
			prev, cur := tasks[i-1], tasks[i]
			assert.True(t, prev.CreatedAt.After(cur.CreatedAt) ||
				(prev.CreatedAt.Equal(cur.CreatedAt) && prev.ID > cur.ID))
		}
		assert.Equal(t, "Owned 6", tasks[0].Title)
	})

	t.Run("zero limit returns everything the owner has", func(t *testing.T) {
		tasks, err := taskStore.ListByOwner(ctx, owner.ID, 0)
		require.NoError(t, err)
		assert.Len(t, tasks, 6)
		for _, task := range tasks {
			assert.Equal(t, owner.ID, task.OwnerID)
		}
	})

	t.Run("owner with no rows gets an empty slice", func(t *testing.T) {
		empty := testutils.InsertTestUser(t, db, "empty@example.com")
		tasks, err := taskStore.ListByOwner(ctx, empty.ID, 4)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})
}

func TestUserStore(t *testing.T) {
	db := testutils.NewTestDB(t)
	userStore := postgres.NewPostgresUserStore(db, nil)
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		user := &domain.User{
			Email:          "created@example.com",
			HashedPassword: "$2a$10$somethinghashedxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		}
		require.NoError(t, userStore.Create(ctx, user))
		require.NotZero(t, user.ID)

		byID, err := userStore.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		byEmail, err := userStore.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		testutils.InsertTestUser(t, db, "taken@example.com")

		dup := &domain.User{
			Email:          "taken@example.com",
			HashedPassword: "$2a$10$somethinghashedxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		}
		assert.ErrorIs(t, userStore.Create(ctx, dup), store.ErrEmailExists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := userStore.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
