// Package memory provides a thread-safe in-memory implementation of store.Repository.
package memory

import (
	"sync"

	"github.com/jmcleod/gatehouse/store"
)

// Repository is a thread-safe in-memory implementation of store.Repository.
// Suitable for testing, demos, and single-process use cases.
type Repository struct {
	mu       sync.RWMutex
	users    map[string]*store.UserRecord // keyed by user ID
	byEmail  map[string]string            // email -> user ID
	sessions map[string]*store.SessionRecord
}

var _ store.Repository = (*Repository)(nil)

// NewRepository creates a new empty in-memory Repository.
func NewRepository() *Repository {
	return &Repository{
		users:    make(map[string]*store.UserRecord),
		byEmail:  make(map[string]string),
		sessions: make(map[string]*store.SessionRecord),
	}
}

func cloneUser(u *store.UserRecord) *store.UserRecord {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneSession(s *store.SessionRecord) *store.SessionRecord {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (r *Repository) CreateUser(u store.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return store.ErrDuplicateEmail
	}
	r.users[u.ID] = cloneUser(&u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *Repository) FindUserByEmail(email string) (*store.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *Repository) FindUserByID(id string) (*store.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repository) UpdateUser(u store.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.users[u.ID]
	if !ok {
		return store.ErrNotFound
	}
	if old.Email != u.Email {
		delete(r.byEmail, old.Email)
		r.byEmail[u.Email] = u.ID
	}
	r.users[u.ID] = cloneUser(&u)
	return nil
}

func (r *Repository) SaveSession(s store.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.SessionID] = cloneSession(&s)
	return nil
}

func (r *Repository) FindSession(sessionID string) (*store.SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneSession(s), nil
}

func (r *Repository) DeleteSession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return store.ErrNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}
