package auth

import (
	"testing"
	"time"

	"authd/config"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.JWT = secret

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService := NewJWTService(testConfig("test_secret_key_very_long_for_testing"))

	accessToken, err := jwtService.GenerateAccessToken(1, "alice@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	refreshToken, err := jwtService.GenerateRefreshToken(1, "alice@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	// Validate access token
	accessClaims, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), accessClaims.UserID)
	assert.Equal(t, "alice@example.com", accessClaims.Email)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)

	// Validate refresh token
	refreshClaims, err := jwtService.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), refreshClaims.UserID)
	assert.Equal(t, service.TokenTypeRefresh, refreshClaims.Type)
}

func TestJWTService_ValidationFailuresCollapseToOneError(t *testing.T) {
	jwtService := NewJWTService(testConfig("test_secret_key_very_long_for_testing"))
	otherService := NewJWTService(testConfig("a_completely_different_secret_key"))

	foreignToken, err := otherService.GenerateAccessToken(1, "alice@example.com")
	require.NoError(t, err)

	// Malformed token and wrong-secret token fail with the same error kind,
	// so a caller cannot tell which check failed.
	for _, token := range []string{"clearly-not-a-jwt", foreignToken, ""} {
		claims, err := jwtService.ValidateToken(token)
		assert.Nil(t, claims)
		assert.True(t, errors.Is(err, domainerrors.ErrTokenExpiredOrInvalid))
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := &jwtService{
		secret:     "test_secret_key_very_long_for_testing",
		accessTTL:  -time.Minute,
		refreshTTL: -time.Minute,
	}

	expired, err := svc.GenerateAccessToken(1, "alice@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(expired)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpiredOrInvalid))
}

func TestJWTService_MissingSecret(t *testing.T) {
	jwtService := NewJWTService(testConfig(""))

	// Issuing refuses with a configuration error, distinct from auth failures.
	_, err := jwtService.GenerateAccessToken(1, "alice@example.com")
	assert.True(t, errors.Is(err, domainerrors.ErrMissingSecret))

	_, err = jwtService.GenerateRefreshToken(1, "alice@example.com")
	assert.True(t, errors.Is(err, domainerrors.ErrMissingSecret))

	_, err = jwtService.ValidateToken("any-token")
	assert.True(t, errors.Is(err, domainerrors.ErrMissingSecret))
	assert.False(t, errors.Is(err, domainerrors.ErrTokenExpiredOrInvalid))
}
