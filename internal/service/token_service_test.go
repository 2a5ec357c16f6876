package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackhub/auth-service/internal/config"
	domainErrors "github.com/hackhub/auth-service/internal/domain/errors"
	"github.com/hackhub/auth-service/internal/domain/models"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:    "test-access-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshSecret:   "test-refresh-secret",
		RefreshTokenTTL: 168 * time.Hour,
		Issuer:          "auth-service",
	}
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	userID := uuid.New()

	token, err := svc.IssueAccessToken(userID, models.UserTypeParticipant)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)

	gotID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, models.UserTypeParticipant, claims.UserType)
	assert.Equal(t, "auth-service", claims.Issuer)
}

func TestIssueTokenPair(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	userID := uuid.New()

	pair, err := svc.IssueTokenPair(userID, models.UserTypeOrganizer)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestAccessAndRefreshSecretsAreIndependent(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	userID := uuid.New()

	access, err := svc.IssueAccessToken(userID, models.UserTypeParticipant)
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(userID, models.UserTypeParticipant)
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, domainErrors.ErrTokenSignatureInvalid)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, domainErrors.ErrTokenSignatureInvalid)
}

func TestVerifyExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = -time.Minute
	svc := NewTokenService(cfg)

	token, err := svc.IssueAccessToken(uuid.New(), models.UserTypeParticipant)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, domainErrors.ErrExpiredToken)
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc := NewTokenService(testJWTConfig())

	other := NewTokenService(config.JWTConfig{
		AccessSecret:    "some-other-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshSecret:   "another-secret",
		RefreshTokenTTL: 168 * time.Hour,
		Issuer:          "auth-service",
	})

	token, err := other.IssueAccessToken(uuid.New(), models.UserTypeParticipant)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, domainErrors.ErrTokenSignatureInvalid)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewTokenService(testJWTConfig())

	for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		_, err := svc.VerifyAccessToken(token)
		assert.ErrorIs(t, err, domainErrors.ErrMalformedToken, "token %q", token)
	}
}
