package handler

import (
	"net/http"
	"time"
)

// SessionIssuer verifies admin passwords and issues signed session tokens.
type SessionIssuer interface {
	CheckPassword(username, password string) bool
	IssueSession(subject string) (string, time.Time)
}

// AdminSessionHandler exchanges admin username/password for a bearer session token.
type AdminSessionHandler struct {
	issuer SessionIssuer
}

// NewAdminSessionHandler creates an AdminSessionHandler.
func NewAdminSessionHandler(issuer SessionIssuer) *AdminSessionHandler {
	return &AdminSessionHandler{issuer: issuer}
}

type sessionRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Create handles POST /api/admin/session.
// Credentials come from HTTP Basic auth or a JSON body.
func (h *AdminSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		var req sessionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		username, password = req.Username, req.Password
	}

	if !h.issuer.CheckPassword(username, password) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, expiresAt := h.issuer.IssueSession(username)
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expiresAt})
}
