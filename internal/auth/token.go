// Package auth issues and verifies the HS256 bearer tokens that identify users.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AlgorithmHS256 is the only signing method accepted
const AlgorithmHS256 = "HS256"

var (
	// ErrMissingSecret indicates no signing secret was configured
	ErrMissingSecret = errors.New("jwt secret not configured")
	// ErrInvalidToken wraps every verification failure
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the registered claims. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Verifier checks token signatures and claims against one shared secret
type Verifier struct {
	issuer string
	secret []byte
}

// NewVerifier creates a verifier. An empty issuer accepts any issuer.
func NewVerifier(secret []byte, issuer string) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	return &Verifier{secret: secret, issuer: issuer}, nil
}

// NewVerifierFromEnv reads JWT_SECRET and JWT_ISSUER
func NewVerifierFromEnv() (*Verifier, error) {
	return NewVerifier([]byte(os.Getenv("JWT_SECRET")), os.Getenv("JWT_ISSUER"))
}

// Verify parses tokenString and returns its claims.
// A "Bearer " prefix is tolerated.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{AlgorithmHS256}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing 'sub' claim", ErrInvalidToken)
	}
	return claims, nil
}

// Issue signs a token for userID that expires after ttl
func (v *Verifier) Issue(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
