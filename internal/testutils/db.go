//go:build integration

// Package testutils provides database helpers for integration tests.
// Tests that need a real Postgres instance run behind the integration
// build tag and read the connection string from TASKTRACK_TEST_DB_URL.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/migrations"
)

// TestDBEnvVar names the environment variable holding the test database URL.
const TestDBEnvVar = "TASKTRACK_TEST_DB_URL"

// NewTestDB opens a connection to the integration test database, applies
// migrations, and registers cleanup that truncates the tables afterwards.
// The test is skipped when TASKTRACK_TEST_DB_URL is not set.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(TestDBEnvVar)
	if url == "" {
		t.Skipf("skipping: %s not set", TestDBEnvVar)
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err, "failed to open test database")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping test database")

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."), "failed to apply migrations")

	t.Cleanup(func() {
		// Tasks cascade when users are truncated, but be explicit.
		_, err := db.Exec("TRUNCATE tasks, users RESTART IDENTITY CASCADE")
		if err != nil {
			t.Logf("failed to truncate test tables: %v", err)
		}
		_ = db.Close()
	})

	return db
}

// InsertTestUser creates a user row directly and returns the stored user.
func InsertTestUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:          email,
		HashedPassword: "$2a$10$integrationtesthashplaceholderxxxxxxxxxxxxxxxxxxxxxxx",
	}

	err := db.QueryRow(
		`INSERT INTO users (email, hashed_password) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		user.Email, user.HashedPassword,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	require.NoError(t, err, "failed to insert test user")

	return user
}

// InsertTestTask creates a task row directly and returns its ID.
func InsertTestTask(t *testing.T, db *sql.DB, ownerID int64, title string, duration time.Duration) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(
		`INSERT INTO tasks (owner_id, title, duration_seconds) VALUES ($1, $2, $3)
		 RETURNING id`,
		ownerID, title, int64(duration/time.Second),
	).Scan(&id)
	require.NoError(t, err, fmt.Sprintf("failed to insert test task %q", title))

	return id
}
