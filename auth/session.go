package auth

import (
	"net/http"

	"github.com/jmcleod/gatehouse/session"
)

// SessionAuth authenticates requests by resolving the session cookie through
// a session.Store. Wiring the store with session.ExpiringStore or
// session.PersistedStore yields the expiring and database-backed flavors;
// the authenticator itself is identical for all three.
type SessionAuth struct {
	config
	sessions session.Store
}

var _ Authenticator = (*SessionAuth)(nil)

// NewSessionAuth creates the cookie-session strategy over the given store.
func NewSessionAuth(sessions session.Store, opts ...Option) *SessionAuth {
	return &SessionAuth{config: newConfig(opts), sessions: sessions}
}

func (s *SessionAuth) ResolveIdentity(r *http.Request) (string, bool) {
	token, ok := s.SessionToken(r)
	if !ok {
		return "", false
	}
	sess, ok := s.sessions.Find(token)
	if !ok {
		return "", false
	}
	return sess.UserID, true
}

func (s *SessionAuth) CreateSession(userID string) (session.Session, error) {
	return s.sessions.Create(userID)
}

func (s *SessionAuth) DestroySession(r *http.Request) bool {
	token, ok := s.SessionToken(r)
	if !ok {
		return false
	}
	return s.sessions.Destroy(token)
}
