package title

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers title session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/purposes", h.ListPurposes)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Get("/{id}", h.GetSession)
			r.Delete("/{id}", h.DeleteSession)
			r.Post("/{id}/generate", h.Generate)
			r.Post("/{id}/regenerate", h.Regenerate)
			r.Post("/{id}/keywords/toggle", h.ToggleKeyword)
			r.Get("/{id}/search/{provider}", h.SearchURL)
			r.Get("/{id}/export", h.Export)
		})
	})
}
