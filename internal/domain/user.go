package domain

import (
	"fmt"
	"strings"
	"time"
)

// User represents a registered account. Passwords are stored only as bcrypt
// hashes; Verified gates login until the email round-trip completes.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
}

// NewUser creates a new User instance
func NewUser(id, name, email, passwordHash string, verified bool, createdAt time.Time) *User {
	return &User{
		ID:           id,
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Verified:     verified,
		CreatedAt:    createdAt,
	}
}

// ValidateUser validates a User instance
func ValidateUser(u *User) error {
	if u == nil {
		return fmt.Errorf("user cannot be nil")
	}

	if u.ID == "" {
		return fmt.Errorf("user ID is required")
	}

	if u.Name == "" {
		return fmt.Errorf("user Name is required")
	}

	if u.Email == "" {
		return fmt.Errorf("user Email is required")
	}

	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("user Email is invalid: %s", u.Email)
	}

	if u.PasswordHash == "" {
		return fmt.Errorf("user PasswordHash is required")
	}

	return nil
}
