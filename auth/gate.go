package auth

import (
	"context"
	"log/slog"
	"net/http"
)

// Decision is the terminal state of the per-request authorization check.
type Decision int

const (
	// Allowed lets the request through, possibly with a resolved identity.
	Allowed Decision = iota
	// RejectedUnauthorized means no credential was presented at all (401).
	RejectedUnauthorized
	// RejectedForbidden means a credential was presented but did not
	// resolve to a user (403).
	RejectedForbidden
)

type contextKey int

const userIDKey contextKey = iota

// WithUser attaches the resolved user id to the context.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserFromContext returns the user id resolved by the gate, or "" when the
// request was allowed without authentication.
func UserFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Gate applies an Authenticator to each incoming request before handler
// dispatch. It mutates no session state; its only side effect is attaching
// the resolved identity to the request context.
type Gate struct {
	authn Authenticator
}

// NewGate creates a request gate. A nil authenticator allows everything,
// which is the bootstrap state before a strategy is configured.
func NewGate(authn Authenticator) *Gate {
	return &Gate{authn: authn}
}

// Check runs the decision sequence for r and returns the resolved user id
// when the outcome is Allowed via authentication.
func (g *Gate) Check(r *http.Request) (Decision, string) {
	if g.authn == nil {
		return Allowed, ""
	}
	if !g.authn.RequiresAuth(r.URL.Path) {
		return Allowed, ""
	}
	_, hasHeader := g.authn.AuthorizationHeader(r)
	_, hasToken := g.authn.SessionToken(r)
	if !hasHeader && !hasToken {
		return RejectedUnauthorized, ""
	}
	userID, ok := g.authn.ResolveIdentity(r)
	if !ok {
		return RejectedForbidden, ""
	}
	return Allowed, userID
}

// Middleware wraps next with the gate check, translating rejections into the
// two user-visible JSON error responses.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, userID := g.Check(r)
		switch decision {
		case RejectedUnauthorized:
			slog.Debug("request rejected: no credentials",
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			writeGateError(w, http.StatusUnauthorized, "Unauthorized")
			return
		case RejectedForbidden:
			slog.Warn("request rejected: credentials did not resolve",
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			writeGateError(w, http.StatusForbidden, "Forbidden")
			return
		}
		if userID != "" {
			r = r.WithContext(WithUser(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

func writeGateError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`)) //nolint:errcheck
}
