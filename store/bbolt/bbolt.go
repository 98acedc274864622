// Package bbolt provides a BBolt-backed store repository.
package bbolt

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/jmcleod/gatehouse/store"
)

var (
	bucketUsers      = []byte("users")
	bucketUserEmails = []byte("user_emails")
	bucketSessions   = []byte("sessions")
)

// Repository implements store.Repository backed by a BBolt database.
type Repository struct {
	db *bbolt.DB
}

var _ store.Repository = (*Repository)(nil)

// NewRepository returns a Repository backed by the given BBolt database.
// The required buckets are created if they do not exist.
func NewRepository(db *bbolt.DB) (*Repository, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketUserEmails, bucketSessions} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}
	return &Repository{db: db}, nil
}

// NewRepositoryFromFile opens a BBolt database at the given path and returns a new Repository.
func NewRepositoryFromFile(path string, options *bbolt.Options) (*Repository, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewRepository(db)
}

// Close closes the underlying BBolt database.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) CreateUser(u store.UserRecord) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		emails := tx.Bucket(bucketUserEmails)
		if emails.Get([]byte(u.Email)) != nil {
			return store.ErrDuplicateEmail
		}
		data, err := json.Marshal(&u)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketUsers).Put([]byte(u.ID), data); err != nil {
			return err
		}
		return emails.Put([]byte(u.Email), []byte(u.ID))
	})
}

func (r *Repository) FindUserByEmail(email string) (*store.UserRecord, error) {
	var user store.UserRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketUserEmails).Get([]byte(email))
		if id == nil {
			return fmt.Errorf("user %s: %w", email, store.ErrNotFound)
		}
		return getUserTx(tx, string(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindUserByID(id string) (*store.UserRecord, error) {
	var user store.UserRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		return getUserTx(tx, id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func getUserTx(tx *bbolt.Tx, id string, out *store.UserRecord) error {
	data := tx.Bucket(bucketUsers).Get([]byte(id))
	if data == nil {
		return fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	return json.Unmarshal(data, out)
}

func (r *Repository) UpdateUser(u store.UserRecord) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		data := users.Get([]byte(u.ID))
		if data == nil {
			return fmt.Errorf("user %s: %w", u.ID, store.ErrNotFound)
		}
		var old store.UserRecord
		if err := json.Unmarshal(data, &old); err != nil {
			return err
		}
		updated, err := json.Marshal(&u)
		if err != nil {
			return err
		}
		if err := users.Put([]byte(u.ID), updated); err != nil {
			return err
		}
		if old.Email != u.Email {
			emails := tx.Bucket(bucketUserEmails)
			if err := emails.Delete([]byte(old.Email)); err != nil {
				return err
			}
			return emails.Put([]byte(u.Email), []byte(u.ID))
		}
		return nil
	})
}

func (r *Repository) SaveSession(s store.SessionRecord) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(&s)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketSessions).Put([]byte(s.SessionID), data)
	})
}

func (r *Repository) FindSession(sessionID string) (*store.SessionRecord, error) {
	var rec store.SessionRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSessions).Get([]byte(sessionID))
		if data == nil {
			return fmt.Errorf("session %s: %w", sessionID, store.ErrNotFound)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) DeleteSession(sessionID string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		sessions := tx.Bucket(bucketSessions)
		if sessions.Get([]byte(sessionID)) == nil {
			return fmt.Errorf("session %s: %w", sessionID, store.ErrNotFound)
		}
		return sessions.Delete([]byte(sessionID))
	})
}
