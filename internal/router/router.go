package router

import (
	"net/http"

	"cafe-site/internal/handler"
	"cafe-site/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Site        *handler.SiteHandler
	Menu        *handler.MenuHandler
	Reservation *handler.ReservationHandler
	Auth        *handler.AuthHandler
	PublicWS    http.Handler
	AdminWS     http.Handler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, adminKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Public site
	mux.HandleFunc("GET /health", h.Site.Health)
	mux.HandleFunc("GET /api/site", h.Site.Site)
	mux.HandleFunc("GET /api/menu", h.Menu.List)
	mux.HandleFunc("GET /api/categories", h.Menu.ListCategories)
	mux.HandleFunc("GET /api/business", h.Site.Business)
	mux.HandleFunc("POST /api/reservations", h.Reservation.Submit)

	// Admin panel (guarded by AdminAuth, except login)
	mux.HandleFunc("POST /api/admin/login", h.Auth.Login)
	mux.HandleFunc("GET /api/admin/snapshot", h.Site.Snapshot)
	mux.HandleFunc("PUT /api/admin/business", h.Site.UpdateBusiness)

	mux.HandleFunc("POST /api/admin/menu-items", h.Menu.Create)
	mux.HandleFunc("PUT /api/admin/menu-items/{id}", h.Menu.Update)
	mux.HandleFunc("DELETE /api/admin/menu-items/{id}", h.Menu.Delete)

	mux.HandleFunc("POST /api/admin/categories", h.Menu.CreateCategory)
	mux.HandleFunc("PUT /api/admin/categories/{id}", h.Menu.UpdateCategory)
	mux.HandleFunc("DELETE /api/admin/categories/{id}", h.Menu.DeleteCategory)

	mux.HandleFunc("GET /api/admin/reservations", h.Reservation.List)
	mux.HandleFunc("GET /api/admin/reservations/stats", h.Reservation.Stats)
	mux.HandleFunc("PUT /api/admin/reservations/{id}/status", h.Reservation.SetStatus)
	mux.HandleFunc("DELETE /api/admin/reservations/{id}", h.Reservation.Delete)

	// Live snapshots
	if h.PublicWS != nil {
		mux.Handle("GET /ws", h.PublicWS)
	}
	if h.AdminWS != nil {
		mux.Handle("GET /api/admin/ws", h.AdminWS)
	}

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> AdminAuth
	var handler http.Handler = mux
	handler = middleware.AdminAuth(adminKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
