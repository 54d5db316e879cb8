package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v, err := NewVerifier([]byte("test-secret"), "inkwell")
	require.NoError(t, err)

	token, err := v.Issue("user-123", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "inkwell", claims.Issuer)
}

func TestVerifier_Rejects(t *testing.T) {
	v, err := NewVerifier([]byte("test-secret"), "inkwell")
	require.NoError(t, err)

	expired, err := v.Issue("user-123", -time.Minute)
	require.NoError(t, err)

	other, err := NewVerifier([]byte("other-secret"), "inkwell")
	require.NoError(t, err)
	foreign, err := other.Issue("user-123", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewVerifier([]byte("test-secret"), "elsewhere")
	require.NoError(t, err)
	misissued, err := wrongIssuer.Issue("user-123", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "inkwell",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "inkwell",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"wrong issuer": misissued,
		"no subject":   noSubject,
		"alg none":     noneAlg,
		"garbage":      "not.a.token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier(nil, "")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
