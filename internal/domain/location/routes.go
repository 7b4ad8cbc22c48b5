package location

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the owner router for locations and their rules.
// bookings serves GET /{id}/bookings and is owned by the booking domain; nil skips it.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, bookings http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.CreateLocation)
	r.Get("/", h.ListLocations)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetLocation)
		r.Put("/", h.UpdateLocation)
		r.Delete("/", h.DeleteLocation)

		r.Post("/rules", h.CreateRule)
		r.Get("/rules", h.ListRules)
		r.Put("/rules/{ruleID}", h.UpdateRule)
		r.Delete("/rules/{ruleID}", h.DeleteRule)

		r.Get("/calendar", h.Calendar)
		if bookings != nil {
			r.Get("/bookings", bookings)
		}
	})

	return r
}
