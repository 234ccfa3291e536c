package handler

import (
	"crypto/subtle"
	"net/http"

	"cafe-site/internal/model"

	"github.com/rs/zerolog"
)

// LoginRequest carries the admin secret.
type LoginRequest struct {
	Key string `json:"key"`
}

// AuthHandler checks the static admin secret.
type AuthHandler struct {
	adminKey string
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(adminKey string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		adminKey: adminKey,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /api/admin/login requests. A correct key answers 204; the
// admin panel then sends the same key as X-Admin-Key on every admin call.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if req.Key == "" || subtle.ConstantTimeCompare([]byte(req.Key), []byte(h.adminKey)) != 1 {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid admin key", h.logger)
		return
	}

	h.logger.Info().Str("remote_addr", r.RemoteAddr).Msg("admin login")
	w.WriteHeader(http.StatusNoContent)
}
