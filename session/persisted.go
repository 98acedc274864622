package session

import (
	"time"

	"github.com/jmcleod/gatehouse/store"
)

// PersistedStore layers a store.Repository under a local Store so sessions
// survive process restarts.
//
// No atomicity is assumed across the two layers: the local operation runs
// first, the persisted one second, and a failure in either is confined to
// that layer — it never rolls back the other's completed mutation. Any
// repository read failure resolves as absent (fail closed) rather than
// surfacing a storage error to the authentication path.
type PersistedStore struct {
	local Store
	repo  store.Repository
	ttl   time.Duration
	now   func() time.Time
}

var _ Store = (*PersistedStore)(nil)

// PersistedOption configures a PersistedStore.
type PersistedOption func(*PersistedStore)

// WithPersistedClock substitutes the time source. Intended for tests.
func WithPersistedClock(now func() time.Time) PersistedOption {
	return func(s *PersistedStore) {
		s.now = now
	}
}

// NewPersistedStore combines a local store with a persisted repository.
// A ttl of zero or less means sessions never expire.
func NewPersistedStore(local Store, repo store.Repository, ttl time.Duration, opts ...PersistedOption) *PersistedStore {
	s := &PersistedStore{
		local: local,
		repo:  repo,
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PersistedStore) Create(userID string) (Session, error) {
	sess, err := s.local.Create(userID)
	if err != nil {
		return Session{}, err
	}
	// A failed save is this layer's problem only: the session still works
	// in-process, it just won't resolve after a restart.
	_ = s.repo.SaveSession(store.SessionRecord{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		CreatedAt: sess.CreatedAt,
	})
	return sess, nil
}

// Find resolves the session against the persisted backend, so a restarted
// process still honors sessions issued before the restart.
func (s *PersistedStore) Find(sessionID string) (Session, bool) {
	rec, err := s.repo.FindSession(sessionID)
	if err != nil {
		return Session{}, false
	}
	sess := Session{
		ID:        rec.SessionID,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
	}
	if s.ttl > 0 && s.now().After(sess.CreatedAt.Add(s.ttl)) {
		return Session{}, false
	}
	return sess, true
}

// Destroy removes the session from both layers, local first. It reports
// success only when both deletes found an entry.
func (s *PersistedStore) Destroy(sessionID string) bool {
	localOK := s.local.Destroy(sessionID)
	persistedOK := s.repo.DeleteSession(sessionID) == nil
	return localOK && persistedOK
}
