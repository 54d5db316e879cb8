package main

import (
	"Inkwell/internal/auth"
	"flag"
	"fmt"
	"log"
	"time"
)

// gentoken signs an HS256 bearer token for local development
// using the same JWT_SECRET and JWT_ISSUER the server verifies with.
//
// Usage:
//
//	JWT_SECRET=dev-secret go run ./cmd/gentoken -user alice -ttl 24h
func main() {
	userID := flag.String("user", "", "user id placed in the sub claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	verifier, err := auth.NewVerifierFromEnv()
	if err != nil {
		log.Fatalf("Failed to load signing secret: %v", err)
	}

	token, err := verifier.Issue(*userID, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println(token)
}
