package comments

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CommentInput is the request body for comment and reply writes
type CommentInput struct {
	Description string `json:"description"`
}

// CreateCommentHandler handles comment creation requests
type CreateCommentHandler struct {
	service content.Service
}

// NewCreateCommentHandler creates a new handler for creating comments
func NewCreateCommentHandler(service content.Service) *CreateCommentHandler {
	return &CreateCommentHandler{service: service}
}

// HandleCreate handles POST /api/v1/posts/{postID}/comments
func (h *CreateCommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var input CommentInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	comment, err := h.service.CreateComment(r.Context(), chi.URLParam(r, "postID"), userID, input.Description)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, comment)
}
