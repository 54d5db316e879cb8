package main

import (
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/api/routes"
	"Inkwell/internal/auth"
	"Inkwell/internal/cache/topiccache"
	"Inkwell/internal/core/content"
	"Inkwell/internal/db"
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := db.Open(ctx, db.ConfigFromEnv(), logger)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer closeStore()

	// Optional topic cache in front of the topic repository
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, topic cache will fall through", "addr", addr, "error", err)
		}
		ttl := time.Duration(envInt("TOPIC_CACHE_TTL_MINUTES", 0)) * time.Minute
		repos.Topics = topiccache.New(repos.Topics, rdb, ttl, logger)
		logger.Info("topic cache enabled", "addr", addr)
	}

	service, err := content.NewService(repos, content.ConfigFromEnv(), logger)
	if err != nil {
		log.Fatal("Failed to create content service:", err)
	}

	verifier, err := auth.NewVerifierFromEnv()
	if err != nil {
		log.Fatal("Failed to configure token verification:", err)
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting per user, or per IP for anonymous callers
	rateLimiter := middleware.NewRateLimiter(envInt("RATE_LIMIT_PER_MINUTE", 100), time.Minute)
	defer rateLimiter.Stop()

	routes.RegisterAPIRoutes(r, service, routes.Options{
		Auth:           middleware.NewAuthMiddleware(verifier),
		RateLimiter:    rateLimiter,
		AllowedOrigins: allowedOrigins(),
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	port := os.Getenv("APPVIEW_PORT")
	if port == "" {
		port = "8081"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Inkwell starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Ignoring invalid %s=%q", key, raw)
		return fallback
	}
	return n
}

// allowedOrigins reads CORS_ALLOWED_ORIGINS as a comma separated list
func allowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
