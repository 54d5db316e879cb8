package comments

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/core/content"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetCommentsHandler serves comment reads
type GetCommentsHandler struct {
	service content.Service
}

// NewGetCommentsHandler creates a new handler for reading comments
func NewGetCommentsHandler(service content.Service) *GetCommentsHandler {
	return &GetCommentsHandler{service: service}
}

// HandleList handles GET /api/v1/posts/{postID}/comments
// Comments are returned newest first with their replies embedded.
func (h *GetCommentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := handlers.PageParams(r)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	result, err := h.service.ListComments(r.Context(), chi.URLParam(r, "postID"), page)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleGet handles GET /api/v1/posts/{postID}/comments/{commentID}
func (h *GetCommentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.GetComment(r.Context(), chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, comment)
}
