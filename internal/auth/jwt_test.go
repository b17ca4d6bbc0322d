package auth

import (
	"testing"
	"time"

	"github.com/Solomon-Dzokoto/hng-wallet/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtConfig(expiry time.Duration) *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", Expiry: expiry, Issuer: "test"}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := jwtConfig(time.Hour)
	token, err := GenerateAccessToken(cfg, 42, "u@example.com")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(jwtConfig(time.Hour), 42, "u@example.com")
	require.NoError(t, err)

	_, err = ParseAccessToken(&config.JWTConfig{Secret: "other"}, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_Expired(t *testing.T) {
	cfg := jwtConfig(-time.Minute)
	token, err := GenerateAccessToken(cfg, 42, "u@example.com")
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
