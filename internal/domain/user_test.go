package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()

		user, err := domain.NewUser("alice@example.com", "a-long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("empty email", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("", "a-long-enough-password")
		assert.ErrorIs(t, err, domain.ErrEmptyEmail)
	})

	t.Run("malformed email", func(t *testing.T) {
		t.Parallel()

		for _, email := range []string{"not-an-email", "@example.com", "user@", "user@nodot"} {
			_, err := domain.NewUser(email, "a-long-enough-password")
			assert.ErrorIs(t, err, domain.ErrInvalidEmail, "email %q should be rejected", email)
		}
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("bob@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		assert.ErrorIs(t, err, domain.ErrInvalidPassword)
	})
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// A user loaded from the store has no plaintext password, only the hash.
	user := &domain.User{
		ID:             1,
		Email:          "carol@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), domain.ErrEmptyPassword)
}
