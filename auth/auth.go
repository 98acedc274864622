// Package auth implements the pluggable request-authentication strategies and
// the gate that applies them before handler dispatch.
//
// Every strategy implements the same Authenticator capability set; the
// variants differ only in how ResolveIdentity turns a request into a user id.
// Session-backed variants delegate storage policy to a session.Store, so the
// expiring and persisted flavors are wired by decorating the store rather
// than by subclassing the authenticator.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jmcleod/gatehouse/session"
	"github.com/jmcleod/gatehouse/store"
)

// DefaultCookieName is the session cookie consulted when no name is configured.
const DefaultCookieName = "gatehouse_session"

// ErrNoSessions is returned by CreateSession on strategies that do not manage
// server-side sessions (Null, Basic).
var ErrNoSessions = errors.New("auth: strategy does not manage sessions")

// Authenticator is the capability set shared by every strategy.
type Authenticator interface {
	// RequiresAuth reports whether path needs authentication. A nil or
	// empty exemption list restricts everything.
	RequiresAuth(path string) bool
	// AuthorizationHeader returns the Authorization header verbatim.
	AuthorizationHeader(r *http.Request) (string, bool)
	// SessionToken returns the value of the configured session cookie.
	SessionToken(r *http.Request) (string, bool)
	// ResolveIdentity maps the request to a user id. Absent means
	// unauthenticated; malformed credentials are indistinguishable from
	// missing ones.
	ResolveIdentity(r *http.Request) (string, bool)
	// CreateSession mints a session for userID, if the strategy supports it.
	CreateSession(userID string) (session.Session, error)
	// DestroySession invalidates the request's session and reports whether
	// one existed.
	DestroySession(r *http.Request) bool
}

// UserDirectory is the slice of the account store the Basic strategy needs.
// store.Repository satisfies it.
type UserDirectory interface {
	FindUserByEmail(email string) (*store.UserRecord, error)
	FindUserByID(id string) (*store.UserRecord, error)
}

// Option configures the request-independent settings shared by strategies.
type Option func(*config)

// WithExemptPaths sets the paths that never require authentication. Entries
// ending in '*' match by prefix; all others match exactly, ignoring a
// trailing slash on either side.
func WithExemptPaths(paths []string) Option {
	return func(c *config) {
		c.exempt = paths
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(c *config) {
		c.cookie = name
	}
}

// config is embedded by each strategy; it carries the exemption list and
// cookie name and implements the extraction half of the capability set.
type config struct {
	exempt []string
	cookie string
}

func newConfig(opts []Option) config {
	c := config{cookie: DefaultCookieName}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// RequiresAuth applies the exemption list. First matching entry wins; no
// match, or no list at all, means authentication is required.
func (c config) RequiresAuth(path string) bool {
	if path == "" {
		return true
	}
	for _, pattern := range c.exempt {
		if strings.HasSuffix(pattern, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(pattern, "*")) {
				return false
			}
		} else if normalizePath(pattern) == normalizePath(path) {
			return false
		}
	}
	return true
}

// AuthorizationHeader returns the raw Authorization header.
func (c config) AuthorizationHeader(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	return header, header != ""
}

// SessionToken returns the session cookie value.
func (c config) SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.cookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// CookieName returns the configured session cookie name.
func (c config) CookieName() string {
	return c.cookie
}

// normalizePath ensures a single trailing slash so /status and /status/
// compare equal.
func normalizePath(p string) string {
	return strings.TrimRight(p, "/") + "/"
}

// Null is the bootstrap strategy: nothing requires authentication and no
// request ever resolves to an identity.
type Null struct {
	config
}

var _ Authenticator = (*Null)(nil)

// NewNull creates the no-op strategy.
func NewNull(opts ...Option) *Null {
	return &Null{config: newConfig(opts)}
}

func (n *Null) RequiresAuth(string) bool {
	return false
}

func (n *Null) ResolveIdentity(*http.Request) (string, bool) {
	return "", false
}

func (n *Null) CreateSession(string) (session.Session, error) {
	return session.Session{}, ErrNoSessions
}

func (n *Null) DestroySession(*http.Request) bool {
	return false
}
