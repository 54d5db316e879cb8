package post

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UpdateHandler handles post edits
type UpdateHandler struct {
	service content.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service content.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PATCH /api/v1/posts/{slug}
// Only the author may edit. Omitted fields are left unchanged.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req content.UpdatePostRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.UpdatePost(r.Context(), chi.URLParam(r, "slug"), userID, req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, post)
}
