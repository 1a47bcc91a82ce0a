package api

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/prompt-general/vectorpress/internal/content"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleLogin authenticates a username/password pair and returns a bearer
// token.
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	token, err := g.content.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, content.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		g.log.WithError(err).Error("login failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

// handleProtected echoes the authenticated user. requireAuth guarantees an
// identity is present.
func (g *Gateway) handleProtected(w http.ResponseWriter, r *http.Request) {
	user := identityFrom(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "You have access",
		"user":    user,
	})
}

// handleHealth is a pure liveness check. It must stay dependency-free: it
// answers OK even when the store is down.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
