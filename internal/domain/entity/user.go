package entity

import (
	"time"
)

// User is the aggregate root for the user directory.
// PasswordHash holds a bcrypt hash; the plaintext secret is never persisted
// and never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
