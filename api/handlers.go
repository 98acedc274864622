package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jmcleod/gatehouse/auth"
	"github.com/jmcleod/gatehouse/internal/password"
	"github.com/jmcleod/gatehouse/store"
)

// Status handles GET /status.
func (a *API) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "OK"})
}

// Register handles POST /users.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[RegisterRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := store.UserRecord{
		ID:             uuid.NewString(),
		Email:          req.Email,
		HashedPassword: hashed,
		CreatedAt:      time.Now().UTC(),
	}
	if err := a.users.CreateUser(user); err != nil {
		mapError(w, err)
		return
	}

	a.audit.logEvent(AuditRegister, r, user.ID)
	writeJSON(w, http.StatusCreated, RegisterResponse{
		Email:   user.Email,
		Message: "user created",
	})
}

// Login handles POST /sessions. On success a session cookie is set; the
// response body echoes the email so clients can confirm who they are.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[LoginRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	user, err := a.users.FindUserByEmail(req.Email)
	if err != nil || !password.Verify(user.HashedPassword, req.Password) {
		a.audit.logFailure(AuditLoginFailure, r, "invalid credentials")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := a.authn.CreateSession(user.ID)
	switch {
	case errors.Is(err, auth.ErrNoSessions):
		// Strategy without session state (basic auth): credentials checked
		// out, there is just no cookie to hand back.
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	default:
		a.writeSessionCookie(w, sess.ID)
		// The session row on the user record is advisory; the session store
		// stays authoritative.
		user.SessionID = sess.ID
		_ = a.users.UpdateUser(*user)
	}

	a.audit.logEvent(AuditLoginSuccess, r, user.ID)
	writeJSON(w, http.StatusOK, LoginResponse{
		Email:   user.Email,
		Message: "logged in",
	})
}

// Logout handles DELETE /sessions. The route is reachable without the gate,
// so the handler resolves the caller itself: no valid session means 401.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.authn.ResolveIdentity(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	a.authn.DestroySession(r)
	a.clearSessionCookie(w)

	if user, err := a.users.FindUserByID(userID); err == nil {
		user.SessionID = ""
		_ = a.users.UpdateUser(*user)
	}

	a.audit.logEvent(AuditLogout, r, userID)
	writeJSON(w, http.StatusOK, LogoutResponse{Message: "logged out"})
}

// Me handles GET /users/me.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user, err := a.users.FindUserByID(userID)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{
		ID:    user.ID,
		Email: user.Email,
	})
}

func (a *API) writeSessionCookie(w http.ResponseWriter, token string) {
	c := &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if a.cookieTTL > 0 {
		c.Expires = time.Now().Add(a.cookieTTL)
	}
	http.SetCookie(w, c)
}

func (a *API) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
