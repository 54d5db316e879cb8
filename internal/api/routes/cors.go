package routes

import (
	"net/http"

	"github.com/go-chi/cors"
)

// corsMiddleware allows browser clients from allowedOrigins to call the API.
// An empty list allows any origin without credentials.
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	allowCredentials := len(allowedOrigins) > 0
	if !allowCredentials {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: allowCredentials,
		MaxAge:           300, // 5 minutes
	})
}
