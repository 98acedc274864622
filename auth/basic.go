package auth

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/jmcleod/gatehouse/internal/password"
	"github.com/jmcleod/gatehouse/session"
)

const basicPrefix = "Basic "

// Basic authenticates every request from an `Authorization: Basic
// base64(email:password)` header against the user directory. It keeps no
// server-side state.
type Basic struct {
	config
	users UserDirectory
}

var _ Authenticator = (*Basic)(nil)

// NewBasic creates the HTTP Basic strategy over the given user directory.
func NewBasic(users UserDirectory, opts ...Option) *Basic {
	return &Basic{config: newConfig(opts), users: users}
}

func (b *Basic) ResolveIdentity(r *http.Request) (string, bool) {
	header, ok := b.AuthorizationHeader(r)
	if !ok {
		return "", false
	}
	email, pass, ok := parseBasicHeader(header)
	if !ok {
		return "", false
	}
	user, err := b.users.FindUserByEmail(email)
	if err != nil {
		return "", false
	}
	if !password.Verify(user.HashedPassword, pass) {
		return "", false
	}
	return user.ID, true
}

func (b *Basic) CreateSession(string) (session.Session, error) {
	return session.Session{}, ErrNoSessions
}

func (b *Basic) DestroySession(*http.Request) bool {
	return false
}

// parseBasicHeader extracts the email and password from a Basic auth header.
// The payload splits at the FIRST colon only, so passwords may contain ':'.
// Any malformed input (wrong prefix, bad base64, no separator) reports false;
// callers cannot tell malformed from missing.
func parseBasicHeader(header string) (email, pass string, ok bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(basicPrefix):])
	if err != nil {
		return "", "", false
	}
	email, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return email, pass, true
}
