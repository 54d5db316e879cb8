package post

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetHandler serves a single post
type GetHandler struct {
	service content.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service content.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet handles GET /api/v1/posts/{slug}
// Unpublished posts are only visible to their author.
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "slug"), middleware.GetUserID(r))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, post)
}
