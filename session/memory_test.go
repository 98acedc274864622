package session

import (
	"errors"
	"sync"
	"testing"
)

// storeTests runs the common suite against any Store implementation.
func storeTests(t *testing.T, store Store) {
	t.Helper()

	t.Run("CreateAndFind", func(t *testing.T) {
		sess, err := store.Create("u-1")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if sess.ID == "" {
			t.Fatal("expected non-empty session id")
		}
		got, ok := store.Find(sess.ID)
		if !ok {
			t.Fatal("expected to find session immediately after creation")
		}
		if got.UserID != "u-1" {
			t.Fatalf("got UserID %q, want u-1", got.UserID)
		}
	})

	t.Run("CreateEmptyUserID", func(t *testing.T) {
		if _, err := store.Create(""); !errors.Is(err, ErrInvalidUserID) {
			t.Fatalf("Create(\"\") = %v, want ErrInvalidUserID", err)
		}
	})

	t.Run("IDsAreUnique", func(t *testing.T) {
		a, _ := store.Create("u-1")
		b, _ := store.Create("u-1")
		if a.ID == b.ID {
			t.Fatal("two sessions should never share an id")
		}
	})

	t.Run("FindMissing", func(t *testing.T) {
		if _, ok := store.Find("no-such-session"); ok {
			t.Fatal("expected not found for unknown id")
		}
	})

	t.Run("Destroy", func(t *testing.T) {
		sess, _ := store.Create("u-del")
		if !store.Destroy(sess.ID) {
			t.Fatal("Destroy should report true for an existing session")
		}
		if _, ok := store.Find(sess.ID); ok {
			t.Fatal("destroyed session must never resolve again")
		}
		if store.Destroy(sess.ID) {
			t.Fatal("second Destroy should report false")
		}
	})

	t.Run("DestroyMissing", func(t *testing.T) {
		if store.Destroy("never-existed") {
			t.Fatal("Destroy of unknown id should report false")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeTests(t, NewMemoryStore())
}

func TestMemoryStoreConcurrency(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := store.Create("u-1")
			if err != nil {
				t.Error(err)
				return
			}
			if _, ok := store.Find(sess.ID); !ok {
				t.Error("session should be visible to its creator")
			}
			store.Destroy(sess.ID)
		}()
	}
	wg.Wait()
}
