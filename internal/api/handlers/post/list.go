package post

import (
	"Inkwell/internal/api/handlers"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"
	"net/http"
	"strings"
)

// ListHandler serves post listings
type ListHandler struct {
	service content.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service content.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleList handles GET /api/v1/posts
//
// Query parameters:
//   - q: text search over title and short description
//   - author_id: restrict to one author; authors see their own drafts
//   - topics: comma separated topic slugs
//   - after, limit: keyset pagination
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := handlers.PageParams(r)
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	q := r.URL.Query()
	query := content.PostQuery{
		Query:      strings.TrimSpace(q.Get("q")),
		AuthorID:   strings.TrimSpace(q.Get("author_id")),
		TopicSlugs: handlers.SplitList(q.Get("topics")),
		Params:     page,
	}

	result, err := h.service.ListPosts(r.Context(), query, middleware.GetUserID(r))
	if err != nil {
		handlers.HandleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
