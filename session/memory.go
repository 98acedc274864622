package session

import (
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory Store.
// Sessions are lost on server restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Session
	now  func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock substitutes the time source. Intended for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		data: make(map[string]Session),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Create(userID string) (Session, error) {
	if userID == "" {
		return Session{}, ErrInvalidUserID
	}
	sess := Session{
		ID:        newID(),
		UserID:    userID,
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	s.data[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *MemoryStore) Find(sessionID string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.data[sessionID]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	return sess, true
}

func (s *MemoryStore) Destroy(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[sessionID]; !ok {
		return false
	}
	delete(s.data, sessionID)
	return true
}
