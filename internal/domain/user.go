package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common validation errors for User. The password errors wrap
// ErrInvalidPassword so callers can match the whole family at once.
var (
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = fmt.Errorf("%w: must be at least 12 characters long", ErrInvalidPassword)
	ErrPasswordTooLong     = fmt.Errorf("%w: must be at most 72 characters long", ErrInvalidPassword)
	ErrEmptyPassword       = fmt.Errorf("%w: cannot be empty", ErrInvalidPassword)
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the task tracker. Tasks reference
// users by their integer ID, which the store assigns on creation.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and password.
// The ID and timestamps are assigned by the store on creation.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing it before storage.
func NewUser(email, password string) (*User, error) {
	user := &User{
		Email:    email,
		Password: password, // Must be hashed before storage
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	// During creation we validate the plaintext password; existing users
	// loaded from the store carry only the hash.
	if u.Password != "" {
		if len(u.Password) < 12 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format.
// It only checks for a plausible local@domain.tld shape; stricter
// verification happens when the address is actually used.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
