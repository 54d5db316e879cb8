// cmd/recount/main.go
// Recomputes total_comment and total_reaction for every post from the live
// comment and reaction documents.
package main

import (
	"Inkwell/internal/core/content"
	"Inkwell/internal/db"
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := db.ConfigFromEnv()
	log.Printf("Connecting to %s store...", cfg.Driver)
	repos, closeStore, err := db.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	service, err := content.NewService(repos, content.ConfigFromEnv(), logger)
	if err != nil {
		log.Fatalf("Failed to create content service: %v", err)
	}

	log.Printf("Reconciling post counters...")
	result, err := service.ReconcileCounters(ctx)
	if err != nil {
		log.Fatalf("Reconciliation aborted after %d posts: %v", result.Scanned, err)
	}

	log.Printf("Scanned %d posts, corrected %d counters, %d failures", result.Scanned, result.Corrected, result.Failed)
	if result.Failed > 0 {
		os.Exit(1)
	}
}
