package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmcleod/gatehouse/internal/password"
	"github.com/jmcleod/gatehouse/store"
	"github.com/jmcleod/gatehouse/store/memory"
)

func TestParseBasicHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantEmail string
		wantPass  string
		wantOK    bool
	}{
		{"Valid", "Basic " + base64.StdEncoding.EncodeToString([]byte("bob@example.com:secret")), "bob@example.com", "secret", true},
		{"PasswordWithColons", "Basic Zm9vOmJhcjpiYXo=", "foo", "bar:baz", true},
		{"EmptyPassword", "Basic " + base64.StdEncoding.EncodeToString([]byte("foo:")), "foo", "", true},
		{"NoPrefix", base64.StdEncoding.EncodeToString([]byte("foo:bar")), "", "", false},
		{"WrongScheme", "Bearer Zm9vOmJhcg==", "", "", false},
		{"LowercasePrefix", "basic Zm9vOmJhcg==", "", "", false},
		{"InvalidBase64", "Basic %%%not-base64%%%", "", "", false},
		{"NoSeparator", "Basic " + base64.StdEncoding.EncodeToString([]byte("foobar")), "", "", false},
		{"Empty", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, pass, ok := parseBasicHeader(tt.header)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if email != tt.wantEmail || pass != tt.wantPass {
				t.Errorf("got (%q, %q), want (%q, %q)", email, pass, tt.wantEmail, tt.wantPass)
			}
		})
	}
}

func TestBasicRoundTrip(t *testing.T) {
	// Encoding credentials and decoding them must yield the exact original
	// pair, including a password containing the separator.
	email, pass := "foo", "bar:baz"
	header := "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+pass))
	gotEmail, gotPass, ok := parseBasicHeader(header)
	if !ok || gotEmail != email || gotPass != pass {
		t.Fatalf("round trip got (%q, %q, %v)", gotEmail, gotPass, ok)
	}
}

func newBasicFixture(t *testing.T) (*Basic, *store.UserRecord) {
	t.Helper()
	repo := memory.NewRepository()
	hashed, err := password.Hash("open sesame")
	if err != nil {
		t.Fatalf("hashing fixture password: %v", err)
	}
	user := store.UserRecord{
		ID:             "u-1",
		Email:          "bob@example.com",
		HashedPassword: hashed,
		CreatedAt:      time.Now(),
	}
	if err := repo.CreateUser(user); err != nil {
		t.Fatalf("creating fixture user: %v", err)
	}
	return NewBasic(repo), &user
}

func basicRequest(email, pass string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	r.SetBasicAuth(email, pass)
	return r
}

func TestBasicResolveIdentity(t *testing.T) {
	b, user := newBasicFixture(t)

	t.Run("ValidCredentials", func(t *testing.T) {
		got, ok := b.ResolveIdentity(basicRequest(user.Email, "open sesame"))
		if !ok || got != user.ID {
			t.Fatalf("ResolveIdentity = (%q, %v), want (%q, true)", got, ok, user.ID)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		if _, ok := b.ResolveIdentity(basicRequest(user.Email, "wrong")); ok {
			t.Fatal("wrong password should not resolve")
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		if _, ok := b.ResolveIdentity(basicRequest("nobody@example.com", "open sesame")); ok {
			t.Fatal("unknown email should not resolve")
		}
	})

	t.Run("NoHeader", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		if _, ok := b.ResolveIdentity(r); ok {
			t.Fatal("missing header should not resolve")
		}
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		for _, header := range []string{"Basic !!!", "Bogus Zm9vOmJhcg==", "Basic Zm9vYmFy"} {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			r.Header.Set("Authorization", header)
			if _, ok := b.ResolveIdentity(r); ok {
				t.Errorf("header %q should not resolve", header)
			}
		}
	})
}

func TestBasicSessionOpsUnsupported(t *testing.T) {
	b, _ := newBasicFixture(t)
	if _, err := b.CreateSession("u-1"); err != ErrNoSessions {
		t.Errorf("CreateSession = %v, want ErrNoSessions", err)
	}
	if b.DestroySession(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Error("DestroySession should report false")
	}
}
