package routes

import (
	"Inkwell/internal/api/handlers/reaction"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"

	"github.com/go-chi/chi/v5"
)

// RegisterReactionRoutes registers reaction endpoints on the router
func RegisterReactionRoutes(r chi.Router, service content.Service, authMiddleware *middleware.AuthMiddleware) {
	handler := reaction.NewHandler(service)

	r.Get("/posts/{postID}/reactions", handler.HandleGet)

	r.With(authMiddleware.RequireAuth).Post("/posts/{postID}/reactions", handler.HandleAdd)
	r.With(authMiddleware.RequireAuth).Delete("/posts/{postID}/reactions", handler.HandleRemove)
	r.With(authMiddleware.RequireAuth).Post("/posts/{postID}/reactions/toggle", handler.HandleToggle)
}
