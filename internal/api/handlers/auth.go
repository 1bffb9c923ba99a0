package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/api/middleware"
	"github.com/d4-dhiraj/SpendWise-AI/internal/auth"
)

// AuthHandler handles registration and session endpoints.
type AuthHandler struct {
	provider *auth.Provider
	log      zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(provider *auth.Provider, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		log:      log,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.provider.Register(r.Context(), req.Username, req.Password); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.log.Info().Str("username", req.Username).Msg("User registered")

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"status": "registered",
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, identity, err := h.provider.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"identity": identity,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	if err := h.provider.SignOut(token); err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
