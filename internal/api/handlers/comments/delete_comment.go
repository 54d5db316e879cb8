package comments

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DeleteCommentHandler handles comment deletion
type DeleteCommentHandler struct {
	service content.Service
}

// NewDeleteCommentHandler creates a new handler for deleting comments
func NewDeleteCommentHandler(service content.Service) *DeleteCommentHandler {
	return &DeleteCommentHandler{service: service}
}

// HandleDelete handles DELETE /api/v1/posts/{postID}/comments/{commentID}
// The comment's embedded replies go with it.
func (h *DeleteCommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	err := h.service.DeleteComment(r.Context(), chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"), userID)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
