package post

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DeleteHandler handles post deletion requests
type DeleteHandler struct {
	service content.Service
}

// NewDeleteHandler creates a new handler for deleting posts
func NewDeleteHandler(service content.Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// HandleDelete handles DELETE /api/v1/posts/{slug}
// Comments and reactions are removed before the post itself.
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.DeletePost(r.Context(), chi.URLParam(r, "slug"), userID); err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
