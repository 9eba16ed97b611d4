package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask(1, "Write report", 2*time.Hour)
		require.NoError(t, err)

		assert.Equal(t, int64(1), task.OwnerID)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, 2*time.Hour, task.Duration)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("zero duration defaults to one hour", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask(1, "Quick task", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultTaskDuration, task.Duration)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewTask(1, "", time.Hour)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
	})

	t.Run("duration below one minute rejected", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewTask(1, "Too short", 30*time.Second)
		assert.ErrorIs(t, err, domain.ErrTaskDurationShort)
	})

	t.Run("missing owner rejected", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewTask(0, "No owner", time.Hour)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskOwner)
	})

	t.Run("overlong title rejected", func(t *testing.T) {
		t.Parallel()

		long := make([]byte, domain.MaxTaskTitleLength+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err := domain.NewTask(1, string(long), time.Hour)
		assert.ErrorIs(t, err, domain.ErrTaskTitleTooLong)
	})
}

func TestTaskValidateStatus(t *testing.T) {
	t.Parallel()

	task := &domain.Task{
		OwnerID:  7,
		Title:    "Check status",
		Duration: time.Hour,
		Status:   domain.TaskStatus("archived"),
	}

	assert.ErrorIs(t, task.Validate(), domain.ErrInvalidTaskStatus)

	task.Status = domain.TaskStatusCompleted
	assert.NoError(t, task.Validate())
}
