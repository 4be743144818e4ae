package models

import "time"

// User represents a registered account. The password itself is never
// persisted; only the per-user salt and the derived hash are stored, and
// both are regenerated whenever the password changes.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordSalt string    `bson:"password_salt" json:"-"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
