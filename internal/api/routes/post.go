package routes

import (
	"Inkwell/internal/api/handlers/post"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers post endpoints on the router
// Only post authors can update or delete their own posts
func RegisterPostRoutes(r chi.Router, service content.Service, authMiddleware *middleware.AuthMiddleware) {
	createHandler := post.NewCreateHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)
	getHandler := post.NewGetHandler(service)
	listHandler := post.NewListHandler(service)

	r.Get("/posts", listHandler.HandleList)
	r.Get("/posts/{slug}", getHandler.HandleGet)

	r.With(authMiddleware.RequireAuth).Post("/posts", createHandler.HandleCreate)
	r.With(authMiddleware.RequireAuth).Patch("/posts/{slug}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Delete("/posts/{slug}", deleteHandler.HandleDelete)
}
