package comments

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RepliesHandler serves the replies embedded in a comment
type RepliesHandler struct {
	service content.Service
}

// NewRepliesHandler creates a new handler for reply endpoints
func NewRepliesHandler(service content.Service) *RepliesHandler {
	return &RepliesHandler{service: service}
}

// HandleList handles GET /api/v1/posts/{postID}/comments/{commentID}/replies
func (h *RepliesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	replies, err := h.service.ListReplies(r.Context(), chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{"results": replies})
}

// HandleCreate handles POST /api/v1/posts/{postID}/comments/{commentID}/replies
// Fails with 409 once the comment holds its maximum number of replies.
func (h *RepliesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var input CommentInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	reply, err := h.service.CreateReply(r.Context(),
		chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"), userID, input.Description)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, reply)
}

// HandleUpdate handles PUT /api/v1/posts/{postID}/comments/{commentID}/replies/{replyID}
func (h *RepliesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var input CommentInput
	if !handlers.DecodeJSON(w, r, &input) {
		return
	}

	patch, err := h.service.UpdateReply(r.Context(),
		chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"), chi.URLParam(r, "replyID"),
		userID, input.Description)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, patch)
}

// HandleDelete handles DELETE /api/v1/posts/{postID}/comments/{commentID}/replies/{replyID}
func (h *RepliesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	err := h.service.DeleteReply(r.Context(),
		chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"), chi.URLParam(r, "replyID"), userID)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
