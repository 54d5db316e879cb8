package comments

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UpdateCommentHandler handles comment edits
type UpdateCommentHandler struct {
	service content.Service
}

// NewUpdateCommentHandler creates a new handler for updating comments
func NewUpdateCommentHandler(service content.Service) *UpdateCommentHandler {
	return &UpdateCommentHandler{service: service}
}

// HandleUpdate handles PUT /api/v1/posts/{postID}/comments/{commentID}
// Only the comment's owner may edit it.
func (h *UpdateCommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var input CommentInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	comment, err := h.service.UpdateComment(r.Context(),
		chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"), userID, input.Description)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, comment)
}
