package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a hash
	// mismatch; callers cannot tell the two apart, so login failures do
	// not leak which usernames exist.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrDuplicateUser     = errors.New("username is already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("current password is incorrect")
)

// ValidationError reports a missing required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}
