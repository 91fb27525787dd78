package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/washpoint-kiosk/internal/capability"
	custommiddleware "github.com/mmeshcher/washpoint-kiosk/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware API киоска.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(h.session.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", h.OpenSession)

		r.Post("/rewards/claim", h.Claim)
		r.Get("/rewards", h.GetRewards)
		r.Get("/profile", h.GetProfile)
		r.Get("/notifications", h.GetNotifications)

		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.RequireCapability(capability.RedeemRewards))
			r.Post("/rewards/redeem", h.Redeem)
		})

		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.RequireCapability(capability.ViewHistory))
			r.Get("/history", h.GetHistory)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
