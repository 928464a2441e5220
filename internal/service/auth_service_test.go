package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
}

func TestAuthService_RoundTrip(t *testing.T) {
	s := NewAuthService(testAuthConfig())

	token, err := s.GenerateToken(42)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "42", claims.Subject)
}

func TestAuthService_RejectsWrongSecret(t *testing.T) {
	token, err := NewAuthService(testAuthConfig()).GenerateToken(1)
	require.NoError(t, err)

	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsExpired(t *testing.T) {
	s := NewAuthService(&config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Minute})

	token, err := s.GenerateToken(1)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsMissingUser(t *testing.T) {
	cfg := testAuthConfig()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = NewAuthService(cfg).ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
