// Package session manages the server-side records binding opaque tokens to
// authenticated users.
//
// The base MemoryStore knows nothing about expiry or persistence; those
// policies are layered on as decorators (ExpiringStore, PersistedStore) so
// each is independently testable and any combination can be wired at boot.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidUserID is returned when creating a session without a user id.
// This is a programmer error at the call site, not a user-facing condition.
var ErrInvalidUserID = errors.New("session: empty user id")

// Session binds an opaque identifier to a user for a bounded or unbounded time.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// Store is the contract shared by every session backend.
// Implementations must be safe for concurrent use.
type Store interface {
	// Create mints an unguessable session for userID.
	// Returns ErrInvalidUserID when userID is empty.
	Create(userID string) (Session, error)
	// Find resolves a session id. A missing, destroyed, or expired session
	// reports false.
	Find(sessionID string) (Session, bool)
	// Destroy removes a session and reports whether one existed.
	// Destroying an unknown id is a no-op returning false.
	Destroy(sessionID string) bool
}

// newID returns a cryptographically random session identifier.
func newID() string {
	return uuid.NewString()
}
