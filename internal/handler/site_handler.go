package handler

import (
	"net/http"

	"cafe-site/internal/model"
	"cafe-site/internal/service"

	"github.com/rs/zerolog"
)

// SiteHandler serves the whole-site views and the business profile.
type SiteHandler struct {
	service service.SiteService
	logger  zerolog.Logger
}

// NewSiteHandler creates a new site handler.
func NewSiteHandler(service service.SiteService, logger zerolog.Logger) *SiteHandler {
	return &SiteHandler{
		service: service,
		logger:  logger.With().Str("handler", "site").Logger(),
	}
}

// healthResponse reports liveness and whether remote content has arrived.
type healthResponse struct {
	Status  string `json:"status"`
	Synced  bool   `json:"synced"`
	Version uint64 `json:"version"`
}

// Health handles GET /health requests.
func (h *SiteHandler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Admin(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Synced:  snap.Sync.Synced(),
		Version: snap.Version,
	})
}

// Site handles GET /api/site requests.
func (h *SiteHandler) Site(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Public(r.Context()))
}

// Business handles GET /api/business requests.
func (h *SiteHandler) Business(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Profile(r.Context()))
}

// Snapshot handles GET /api/admin/snapshot requests.
func (h *SiteHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Admin(r.Context()))
}

// UpdateBusiness handles PUT /api/admin/business requests.
func (h *SiteHandler) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	var req model.BusinessProfile
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, profile)
}
