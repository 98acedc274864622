// Package store provides the storage abstraction layer for user accounts and
// persisted session records.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a user or session record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when creating a user whose email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRecord is a registered account. HashedPassword is a bcrypt digest,
// never the raw password. SessionID mirrors the most recent session issued
// for the account and may be empty.
type UserRecord struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	SessionID      string    `json:"session_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// SessionRecord binds an opaque session identifier to a user.
type SessionRecord struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines the interface for account and session persistence.
// Implementations must be safe for concurrent use.
type Repository interface {
	// CreateUser stores a new user. Returns ErrDuplicateEmail if another
	// user already holds the same email.
	CreateUser(u UserRecord) error
	// FindUserByEmail returns the user registered under email, or ErrNotFound.
	FindUserByEmail(email string) (*UserRecord, error)
	// FindUserByID returns the user with the given id, or ErrNotFound.
	FindUserByID(id string) (*UserRecord, error)
	// UpdateUser replaces the stored record for u.ID. Returns ErrNotFound
	// if the user does not exist.
	UpdateUser(u UserRecord) error

	// SaveSession creates or overwrites a session record.
	SaveSession(s SessionRecord) error
	// FindSession returns the session record, or ErrNotFound.
	FindSession(sessionID string) (*SessionRecord, error)
	// DeleteSession removes a session record. Returns ErrNotFound if no
	// record existed.
	DeleteSession(sessionID string) error
}
