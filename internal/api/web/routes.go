package web

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the form page routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Index)
	r.Post("/generate", h.Generate)
	r.Post("/regenerate", h.Regenerate)
	r.Post("/keywords/toggle", h.ToggleKeyword)
	r.Get("/search/{provider}", h.Search)
	r.Get("/export", h.Export)
}
