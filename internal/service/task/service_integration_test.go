//go:build integration

package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/postgres"
	"github.com/tasktrackhq/tasktrack-api/internal/service/task"
	"github.com/tasktrackhq/tasktrack-api/internal/testutils"
)

// Both service implementations must enforce the same ownership behavior:
// the structured one through owner-filtered store queries, the raw one
// through hand-written SQL with the compound key in the predicate. The
// scenarios below run against each in turn.
func TestServiceImplementationsAgree(t *testing.T) {
	db := testutils.NewTestDB(t)
	ctx := context.Background()

	implementations := map[string]task.Service{
		"structured": task.NewService(postgres.NewPostgresTaskStore(db, nil), nil),
		"raw":        task.NewRawService(db, nil),
	}

	alice := testutils.InsertTestUser(t, db, "alice-svc@example.com")
	bob := testutils.InsertTestUser(t, db, "bob-svc@example.com")

	for name, svc := range implementations {
		t.Run(name, func(t *testing.T) {
			created, err := svc.Create(ctx, alice.ID, "Test Task 1", time.Hour)
			require.NoError(t, err)
			require.NotZero(t, created.ID)

			t.Run("owner can read", func(t *testing.T) {
				got, err := svc.Get(ctx, alice.ID, created.ID)
				require.NoError(t, err)
				assert.Equal(t, "Test Task 1", got.Title)
			})

			t.Run("foreign read reports not found", func(t *testing.T) {
				_, err := svc.Get(ctx, bob.ID, created.ID)
				assert.ErrorIs(t, err, task.ErrTaskNotFound)
			})

			t.Run("foreign title update reports not found and leaves the row alone", func(t *testing.T) {
				err := svc.UpdateTitle(ctx, bob.ID, created.ID, "Hijacked")
				assert.ErrorIs(t, err, task.ErrTaskNotFound)

				got, err := svc.Get(ctx, alice.ID, created.ID)
				require.NoError(t, err)
				assert.Equal(t, "Test Task 1", got.Title)
			})

			t.Run("foreign delete reports not found", func(t *testing.T) {
				err := svc.Delete(ctx, bob.ID, created.ID)
				assert.ErrorIs(t, err, task.ErrTaskNotFound)
			})

			t.Run("owner can update title", func(t *testing.T) {
				require.NoError(t, svc.UpdateTitle(ctx, alice.ID, created.ID, "Updated Title"))

				got, err := svc.Get(ctx, alice.ID, created.ID)
				require.NoError(t, err)
				assert.Equal(t, "Updated Title", got.Title)
			})

			t.Run("owner can update title and duration", func(t *testing.T) {
				title := "Fully Updated"
				duration := 2 * time.Hour
				updated, err := svc.Update(ctx, alice.ID, created.ID, task.UpdateParams{
					Title:    &title,
					Duration: &duration,
				})
				require.NoError(t, err)
				assert.Equal(t, "Fully Updated", updated.Title)
				assert.Equal(t, 2*time.Hour, updated.Duration)
				assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
			})

			t.Run("owner can delete", func(t *testing.T) {
				require.NoError(t, svc.Delete(ctx, alice.ID, created.ID))

				_, err := svc.Get(ctx, alice.ID, created.ID)
				assert.ErrorIs(t, err, task.ErrTaskNotFound)
			})
		})
	}
}

func TestServiceListCap(t *testing.T) {
	db := testutils.NewTestDB(t)
	ctx := context.Background()

	owner := testutils.InsertTestUser(t, db, "cap@example.com")
	svc := task.NewService(postgres.NewPostgresTaskStore(db, nil), nil)

	titles := []string{"Test Task 1", "Test Task 2", "Test Task 3", "Test Task 4", "Test Task 5"}
	for _, title := range titles {
		_, err := svc.Create(ctx, owner.ID, title, time.Hour)
		require.NoError(t, err)
	}

	listed, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, listed, task.DefaultListLimit)
	assert.Equal(t, "Test Task 5", listed[0].Title, "newest task comes first")
}

func TestRawServiceUpdatesAreTransactional(t *testing.T) {
	db := testutils.NewTestDB(t)
	ctx := context.Background()

	owner := testutils.InsertTestUser(t, db, "txn@example.com")
	raw := task.NewRawService(db, nil)

	created, err := raw.Create(ctx, owner.ID, "Before", time.Hour)
	require.NoError(t, err)

	require.NoError(t, raw.UpdateTitle(ctx, owner.ID, created.ID, "After"))

	got, err := raw.Get(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt) || got.UpdatedAt.Equal(created.UpdatedAt))
}
