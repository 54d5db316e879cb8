package reaction

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler serves a post's reaction set
type Handler struct {
	service content.Service
}

// NewHandler creates a new reaction handler
func NewHandler(service content.Service) *Handler {
	return &Handler{service: service}
}

// HandleGet handles GET /api/v1/posts/{postID}/reactions
// Response: { "post_id": "...", "count": 3, "reacted": true }
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetReactions(r.Context(), chi.URLParam(r, "postID"), middleware.GetUserID(r))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, summary)
}

// HandleAdd handles POST /api/v1/posts/{postID}/reactions.
// Reacting twice is not an error; "changed" reports whether anything happened.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.AddReaction)
}

// HandleRemove handles DELETE /api/v1/posts/{postID}/reactions
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.RemoveReaction)
}

// HandleToggle handles POST /api/v1/posts/{postID}/reactions/toggle
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.ToggleReaction)
}

type reactionOp func(ctx context.Context, postID, userID string) (*content.ReactionState, error)

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op reactionOp) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	state, err := op(r.Context(), chi.URLParam(r, "postID"), userID)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, state)
}
