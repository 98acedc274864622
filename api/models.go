package api

// RegisterRequest is the JSON body for POST /users.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned from POST /users.
type RegisterResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// LoginRequest is the JSON body for POST /sessions.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned from POST /sessions.
type LoginResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// LogoutResponse is returned from DELETE /sessions.
type LogoutResponse struct {
	Message string `json:"message"`
}

// MeResponse is returned from GET /users/me.
type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// StatusResponse is returned from GET /status.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is returned for all error cases.
type ErrorResponse struct {
	Error string `json:"error"`
}
