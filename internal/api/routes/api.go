package routes

import (
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/core/content"

	"github.com/go-chi/chi/v5"
)

// Options configures the /api/v1 surface
type Options struct {
	Auth           *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// RegisterAPIRoutes mounts every content endpoint under /api/v1.
// Reads resolve the viewer when a token is present; writes require one.
func RegisterAPIRoutes(r chi.Router, service content.Service, opts Options) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(corsMiddleware(opts.AllowedOrigins))
		r.Use(opts.Auth.OptionalAuth)
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		RegisterPostRoutes(r, service, opts.Auth)
		RegisterTopicRoutes(r, service, opts.Auth)
		RegisterCommentRoutes(r, service, opts.Auth)
		RegisterReactionRoutes(r, service, opts.Auth)
	})
}
