package handler

import (
	"net/http"
	"strconv"

	"cafe-site/internal/model"
	"cafe-site/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu item and category requests.
type MenuHandler struct {
	menu       service.MenuService
	categories service.CategoryService
	logger     zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(menu service.MenuService, categories service.CategoryService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		menu:       menu,
		categories: categories,
		logger:     logger.With().Str("handler", "menu").Logger(),
	}
}

// List handles GET /api/menu requests. Optional query parameters:
// category (category ID) and popular (boolean).
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := service.MenuFilter{Category: r.URL.Query().Get("category")}

	if popular := r.URL.Query().Get("popular"); popular != "" {
		v, err := strconv.ParseBool(popular)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidField, "invalid popular parameter", h.logger)
			return
		}
		filter.PopularOnly = v
	}

	writeJSON(w, http.StatusOK, h.menu.List(r.Context(), filter))
}

// Create handles POST /api/admin/menu-items requests.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.MenuItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	item, err := h.menu.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, item)
}

// Update handles PUT /api/admin/menu-items/{id} requests.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.MenuItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	item, err := h.menu.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, item)
}

// Delete handles DELETE /api/admin/menu-items/{id} requests.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// ListCategories handles GET /api/categories requests.
func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.categories.List(r.Context()))
}

// CreateCategory handles POST /api/admin/categories requests.
func (h *MenuHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req model.CategoryRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	cat, err := h.categories.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, cat)
}

// UpdateCategory handles PUT /api/admin/categories/{id} requests.
func (h *MenuHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req model.CategoryRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	cat, err := h.categories.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, cat)
}

// DeleteCategory handles DELETE /api/admin/categories/{id} requests.
func (h *MenuHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
