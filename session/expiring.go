package session

import "time"

// ExpiringStore decorates a Store with lazy expiry: a session older than TTL
// resolves as absent at read time. No background sweeper runs; stale entries
// are removed opportunistically when a Find observes them.
type ExpiringStore struct {
	inner Store
	ttl   time.Duration
	now   func() time.Time
}

var _ Store = (*ExpiringStore)(nil)

// ExpiringOption configures an ExpiringStore.
type ExpiringOption func(*ExpiringStore)

// WithExpiryClock substitutes the time source. Intended for tests.
func WithExpiryClock(now func() time.Time) ExpiringOption {
	return func(s *ExpiringStore) {
		s.now = now
	}
}

// NewExpiringStore wraps inner with an expiry check. A ttl of zero or less
// means sessions never expire.
func NewExpiringStore(inner Store, ttl time.Duration, opts ...ExpiringOption) *ExpiringStore {
	s := &ExpiringStore{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ExpiringStore) Create(userID string) (Session, error) {
	return s.inner.Create(userID)
}

func (s *ExpiringStore) Find(sessionID string) (Session, bool) {
	sess, ok := s.inner.Find(sessionID)
	if !ok {
		return Session{}, false
	}
	if s.expired(sess) {
		s.inner.Destroy(sessionID)
		return Session{}, false
	}
	return sess, true
}

func (s *ExpiringStore) Destroy(sessionID string) bool {
	return s.inner.Destroy(sessionID)
}

// expired reports whether sess is past its lifetime. The boundary instant
// itself is still valid: only now > created_at + ttl expires a session.
func (s *ExpiringStore) expired(sess Session) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().After(sess.CreatedAt.Add(s.ttl))
}
