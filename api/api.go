package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/jmcleod/gatehouse/auth"
	"github.com/jmcleod/gatehouse/internal/redact"
	"github.com/jmcleod/gatehouse/store"
)

// defaultCookieTTL bounds the lifetime stamped on session cookies. The
// authoritative expiry lives server-side in the session store; the cookie
// deadline only tells well-behaved browsers when to stop sending it.
const defaultCookieTTL = 24 * time.Hour

// API holds the dependencies needed by the REST handlers.
type API struct {
	users      store.Repository
	authn      auth.Authenticator
	audit      *auditLogger
	cookieName string
	cookieTTL  time.Duration
}

//go:embed openapi.yaml
var openapiSpec []byte

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithCookieName sets the session cookie name. It must match the name the
// authenticator reads tokens from.
func WithCookieName(name string) Option {
	return func(a *API) {
		a.cookieName = name
	}
}

// WithCookieTTL sets the expiry stamped on session cookies.
func WithCookieTTL(ttl time.Duration) Option {
	return func(a *API) {
		a.cookieTTL = ttl
	}
}

// New creates a new API instance over the given user repository and
// authentication strategy.
func New(users store.Repository, authn auth.Authenticator, opts ...Option) *API {
	a := &API{
		users:      users,
		authn:      authn,
		cookieName: auth.DefaultCookieName,
		cookieTTL:  defaultCookieTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			ReplaceAttr: redact.Attrs(),
		})))
	}
	return a
}

// Router returns a chi.Router with all API routes mounted. Every route sits
// behind the request gate; which paths skip authentication is governed by the
// authenticator's exemption list.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.NewGate(a.authn).Middleware)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/api/v1/openapi.yaml",
		Path:    "api/v1/docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/api/v1/openapi.yaml",
		Path:    "api/v1/redoc",
	}, nil))

	r.Get("/status", a.Status)
	r.Post("/users", a.Register)
	r.Get("/users/me", a.Me)
	r.Post("/sessions", a.Login)
	r.Delete("/sessions", a.Logout)

	return r
}

// DefaultExemptPaths lists the routes reachable without credentials when the
// API is mounted under /api/v1. Registration and login must stay open or
// nobody could ever obtain a session.
func DefaultExemptPaths() []string {
	return []string{
		"/api/v1/status/",
		"/api/v1/openapi.yaml",
		"/api/v1/docs*",
		"/api/v1/redoc*",
		"/api/v1/users/",
		"/api/v1/sessions/",
	}
}
