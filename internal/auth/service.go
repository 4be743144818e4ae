package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookvault/db"
	"bookvault/internal/session"
	"bookvault/models"
)

// Service implements the authentication lifecycle: registration, login,
// logout and password reset. Sessions move between exactly two states:
// anonymous until Login/Register succeeds, authenticated until Logout or
// expiry.
type Service struct {
	users    db.UserRepository
	sessions *session.Manager
	strategy Strategy

	// mu guards userLocks; each entry serializes password resets for one
	// user so concurrent resets cannot interleave partial salt/hash
	// writes.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewService creates an authentication service. A nil strategy defaults
// to password authentication against the user repository.
func NewService(users db.UserRepository, sessions *session.Manager, strategy Strategy) *Service {
	if strategy == nil {
		strategy = NewPasswordStrategy(users)
	}
	return &Service{
		users:     users,
		sessions:  sessions,
		strategy:  strategy,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// Register creates a user with a freshly derived salt and hash, then
// establishes a session for it (auto-login).
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.Session, error) {
	switch {
	case username == "":
		return nil, &ValidationError{Field: "username"}
	case email == "":
		return nil, &ValidationError{Field: "email"}
	case password == "":
		return nil, &ValidationError{Field: "password"}
	}

	salt, err := GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password, salt)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           db.GenerateID(),
		Username:     username,
		Email:        email,
		PasswordSalt: salt,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.sessions.Create(ctx, user.ID, user.Username)
}

// Login authenticates the credentials through the configured strategy and
// establishes a session on success.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.strategy.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.sessions.Create(ctx, user.ID, user.Username)
}

// Logout destroys the session state for the given token. It is
// idempotent: logging out an already-destroyed session succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// ResetPassword verifies the old password and persists a freshly derived
// salt and hash in a single write. Resets for the same user are
// serialized.
func (s *Service) ResetPassword(ctx context.Context, username, oldPassword, newPassword string) error {
	lock := s.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("error looking up user: %w", err)
	}

	if !VerifyPassword(oldPassword, user.PasswordSalt, user.PasswordHash) {
		return ErrIncorrectPassword
	}

	salt, err := GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPassword, salt)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, salt, hash, time.Now()); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

func (s *Service) userLock(username string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[username]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[username] = lock
	}
	return lock
}
