package booking

import (
	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the unauthenticated visitor router
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/locations/{id}/availability", h.GetAvailability)

	r.Route("/booking-sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Put("/{id}/date", h.ChangeDate)
		r.Post("/{id}/toggle", h.Toggle)
		r.Post("/{id}/submit", h.Submit)
		r.Delete("/{id}", h.Abandon)
	})

	r.Get("/bookings/{id}", h.GetBooking)

	return r
}
