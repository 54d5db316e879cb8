package handlers

import (
	"Inkwell/internal/core/content"
	"Inkwell/internal/core/pagination"
	"net/http"
	"strconv"
	"strings"
)

// PageParams reads the "after" and "limit" query parameters.
// Range checks are left to the service.
func PageParams(r *http.Request) (pagination.Params, error) {
	q := r.URL.Query()
	p := pagination.Params{After: strings.TrimSpace(q.Get("after"))}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return p, content.NewValidationError("limit", "limit must be an integer")
		}
		p.Limit = limit
	}
	return p, nil
}

// SplitList parses a comma separated query value, dropping blanks
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
