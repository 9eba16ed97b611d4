package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tasktrackhq/tasktrack-api/internal/api"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
	"github.com/tasktrackhq/tasktrack-api/internal/service/task"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"missing auth context", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"task not found", task.ErrTaskNotFound, http.StatusNotFound},
		{"store task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"empty title", task.ErrEmptyTitle, http.StatusBadRequest},
		{"short duration", domain.ErrTaskDurationShort, http.StatusBadRequest},
		{"bad duration format", domain.ErrInvalidDuration, http.StatusBadRequest},
		{"bad id", domain.ErrInvalidID, http.StatusBadRequest},
		{"bad email", domain.ErrInvalidEmail, http.StatusBadRequest},
		{"short password", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"inconsistent update", task.ErrInconsistentUpdate, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped task not found", fmt.Errorf("get task: %w", task.ErrTaskNotFound), http.StatusNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"task not found", task.ErrTaskNotFound, "Task not found"},
		{"foreign row wrapped", fmt.Errorf("lookup: %w", task.ErrTaskNotFound), "Task not found"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid credentials"},
		{"short duration", domain.ErrTaskDurationShort, "Duration must be at least one minute"},
		{"bad duration format", domain.ErrInvalidDuration, "Duration must use the HH:MM:SS format"},
		{"email exists", store.ErrEmailExists, "Email already exists"},
		{"internal detail hidden", errors.New("pq: connection refused host=10.0.0.1"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, api.GetSafeErrorMessage(tc.err))
		})
	}
}
