package routes

import (
	"Inkwell/internal/api/handlers/topic"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"

	"github.com/go-chi/chi/v5"
)

// RegisterTopicRoutes registers topic endpoints on the router
func RegisterTopicRoutes(r chi.Router, service content.Service, authMiddleware *middleware.AuthMiddleware) {
	handler := topic.NewHandler(service)

	r.Get("/topics", handler.HandleList)
	r.Get("/topics/{slug}", handler.HandleGet)
	r.With(authMiddleware.RequireAuth).Post("/topics", handler.HandleCreate)
}
