package bbolt

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmcleod/gatehouse/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gatehouse.db")
	repo, err := NewRepositoryFromFile(path, nil)
	if err != nil {
		t.Fatalf("opening repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestBBoltUsers(t *testing.T) {
	repo := newTestRepo(t)
	user := store.UserRecord{
		ID:             "u-1",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$fakefakefakefakefakefake",
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}

	t.Run("CreateAndFind", func(t *testing.T) {
		if err := repo.CreateUser(user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		got, err := repo.FindUserByEmail("alice@example.com")
		if err != nil {
			t.Fatalf("FindUserByEmail failed: %v", err)
		}
		if got.ID != user.ID || got.HashedPassword != user.HashedPassword {
			t.Errorf("got %+v, want %+v", got, user)
		}
		if _, err := repo.FindUserByID("u-1"); err != nil {
			t.Fatalf("FindUserByID failed: %v", err)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		dup := user
		dup.ID = "u-2"
		if err := repo.CreateUser(dup); !errors.Is(err, store.ErrDuplicateEmail) {
			t.Errorf("CreateUser = %v, want ErrDuplicateEmail", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := repo.FindUserByEmail("nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("FindUserByEmail = %v, want ErrNotFound", err)
		}
	})

	t.Run("UpdateSessionID", func(t *testing.T) {
		u := user
		u.SessionID = "sess-9"
		if err := repo.UpdateUser(u); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		got, _ := repo.FindUserByID("u-1")
		if got.SessionID != "sess-9" {
			t.Errorf("got SessionID %q, want sess-9", got.SessionID)
		}
	})
}

func TestBBoltSessions(t *testing.T) {
	repo := newTestRepo(t)
	rec := store.SessionRecord{
		SessionID: "sess-1",
		UserID:    "u-1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	if err := repo.SaveSession(rec); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	got, err := repo.FindSession("sess-1")
	if err != nil {
		t.Fatalf("FindSession failed: %v", err)
	}
	if got.UserID != "u-1" || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("got %+v, want %+v", got, rec)
	}

	if err := repo.DeleteSession("sess-1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := repo.FindSession("sess-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindSession after delete = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteSession("sess-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteSession twice = %v, want ErrNotFound", err)
	}
}

func TestBBoltPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gatehouse.db")
	repo, err := NewRepositoryFromFile(path, nil)
	if err != nil {
		t.Fatalf("opening repository: %v", err)
	}
	if err := repo.SaveSession(store.SessionRecord{SessionID: "sess-r", UserID: "u-1", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	repo, err = NewRepositoryFromFile(path, nil)
	if err != nil {
		t.Fatalf("reopening repository: %v", err)
	}
	defer repo.Close()
	got, err := repo.FindSession("sess-r")
	if err != nil {
		t.Fatalf("FindSession after reopen failed: %v", err)
	}
	if got.UserID != "u-1" {
		t.Errorf("got UserID %q, want u-1", got.UserID)
	}
}
