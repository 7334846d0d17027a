package handler

import (
	"net/http"

	"github.com/N6q/EventManagementAPI/internal/auth"
	"github.com/N6q/EventManagementAPI/internal/model"
)

// AuthHandler issues tokens for the fixed demo principals.
type AuthHandler struct {
	tokens *auth.TokenService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// Demo credentials, as shipped by the upstream API.
var demoUsers = map[string]struct {
	password string
	role     string
}{
	"admin": {password: "1234", role: auth.RoleAdmin},
	"user":  {password: "1234", role: auth.RoleUser},
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	account, ok := demoUsers[req.Username]
	if !ok || account.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, expires, err := h.tokens.Generate(req.Username, account.role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token, ExpiresAt: expires})
}
