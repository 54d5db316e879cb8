package routes

import (
	"Inkwell/internal/api/handlers/comments"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"

	"github.com/go-chi/chi/v5"
)

// RegisterCommentRoutes registers comment and reply endpoints on the router
// All write operations (create, update, delete) require authentication
func RegisterCommentRoutes(r chi.Router, service content.Service, authMiddleware *middleware.AuthMiddleware) {
	createHandler := comments.NewCreateCommentHandler(service)
	updateHandler := comments.NewUpdateCommentHandler(service)
	deleteHandler := comments.NewDeleteCommentHandler(service)
	getHandler := comments.NewGetCommentsHandler(service)
	repliesHandler := comments.NewRepliesHandler(service)

	r.Route("/posts/{postID}/comments", func(r chi.Router) {
		r.Get("/", getHandler.HandleList)
		r.Get("/{commentID}", getHandler.HandleGet)
		r.Get("/{commentID}/replies", repliesHandler.HandleList)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/", createHandler.HandleCreate)
			r.Put("/{commentID}", updateHandler.HandleUpdate)
			r.Delete("/{commentID}", deleteHandler.HandleDelete)

			r.Post("/{commentID}/replies", repliesHandler.HandleCreate)
			r.Put("/{commentID}/replies/{replyID}", repliesHandler.HandleUpdate)
			r.Delete("/{commentID}/replies/{replyID}", repliesHandler.HandleDelete)
		})
	})
}
