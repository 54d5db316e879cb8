package post

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service content.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service content.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandleCreate handles POST /api/v1/posts
//
// The author is always the authenticated user. The slug is derived from the title.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req content.CreatePostRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}
	req.AuthorID = userID

	post, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, post)
}
