package topic

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler serves topic endpoints
type Handler struct {
	service content.Service
}

// NewHandler creates a new topic handler
func NewHandler(service content.Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate handles POST /api/v1/topics
// Creating an existing name returns the existing topic.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req content.CreateTopicRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}
	req.UserID = userID

	topic, err := h.service.GetOrCreateTopic(r.Context(), req)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, topic)
}

// HandleGet handles GET /api/v1/topics/{slug}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	topic, err := h.service.GetTopic(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, topic)
}

// HandleList handles GET /api/v1/topics?q=&after=&limit=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := handlers.PageParams(r)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	result, err := h.service.ListTopics(r.Context(), content.TopicQuery{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Params: page,
	})
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
