package auth

import (
	"context"
	"errors"
	"fmt"

	"bookvault/db"
	"bookvault/models"
)

// Strategy authenticates submitted credentials against the credential
// store. Today there is only the password variant; further variants plug
// in here without touching the service.
type Strategy interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// PasswordStrategy verifies a username/password pair against the stored
// salt and hash.
type PasswordStrategy struct {
	users db.UserRepository
}

// NewPasswordStrategy creates a new PasswordStrategy
func NewPasswordStrategy(users db.UserRepository) *PasswordStrategy {
	return &PasswordStrategy{users: users}
}

// Authenticate looks up the user and recomputes the hash under the stored
// salt. Unknown users and mismatched hashes both yield
// ErrInvalidCredentials.
func (s *PasswordStrategy) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if !VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
