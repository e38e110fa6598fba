package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles HTTP requests for login.
type AuthHandler struct {
	service services.UserServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on both success and rejected credentials.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// Login handles user authentication and JWT generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	token, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	switch {
	case errors.Is(err, services.ErrCredentialsRequired):
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		writeJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Message: "Invalid credentials"})
		return
	case err != nil:
		log.Error().Err(err).Str("username", payload.Username).Msg("Login failed")
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Success: true, Token: token})
}
