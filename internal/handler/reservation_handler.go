package handler

import (
	"net/http"

	"cafe-site/internal/model"
	"cafe-site/internal/service"

	"github.com/rs/zerolog"
)

// ReservationHandler handles reservation requests.
type ReservationHandler struct {
	service service.ReservationService
	logger  zerolog.Logger
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(service service.ReservationService, logger zerolog.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		logger:  logger.With().Str("handler", "reservation").Logger(),
	}
}

// Submit handles POST /api/reservations requests.
func (h *ReservationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.ReservationRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	res, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, res)
}

// List handles GET /api/admin/reservations requests, optionally filtered by ?status=.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.ReservationStatus(r.URL.Query().Get("status"))

	list, err := h.service.List(r.Context(), status)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Stats handles GET /api/admin/reservations/stats requests.
func (h *ReservationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Stats(r.Context()))
}

// SetStatus handles PUT /api/admin/reservations/{id}/status requests.
func (h *ReservationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	res, err := h.service.SetStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, res)
}

// Delete handles DELETE /api/admin/reservations/{id} requests.
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
