package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns trips.
// Anonymous users have no Email or PasswordHash until they link credentials.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Anonymous    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a bearer token issued to a user at sign-in.
// It is valid while the current time is before ExpiresAt.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
