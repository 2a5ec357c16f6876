package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hackhub/auth-service/internal/config"
	domainErrors "github.com/hackhub/auth-service/internal/domain/errors"
	"github.com/hackhub/auth-service/internal/domain/models"
)

// TokenClaims are the claims carried by both token classes: the subject
// account id plus its type tag.
type TokenClaims struct {
	UserType models.UserType `json:"userType"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim as the account id.
func (c *TokenClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenService issues and verifies the two token classes. Access and
// refresh tokens are signed with independent secrets, so neither class
// can ever validate as the other.
type TokenService struct {
	cfg config.JWTConfig
}

// NewTokenService creates a TokenService from the JWT configuration.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// IssueAccessToken signs a short-lived access token for the account.
func (s *TokenService) IssueAccessToken(userID uuid.UUID, userType models.UserType) (string, error) {
	return s.issue(userID, userType, []byte(s.cfg.AccessSecret), s.cfg.AccessTokenTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the account.
func (s *TokenService) IssueRefreshToken(userID uuid.UUID, userType models.UserType) (string, error) {
	return s.issue(userID, userType, []byte(s.cfg.RefreshSecret), s.cfg.RefreshTokenTTL)
}

// IssueTokenPair generates both tokens. It has no side effects; storing
// the refresh token on the account is the caller's job.
func (s *TokenService) IssueTokenPair(userID uuid.UUID, userType models.UserType) (models.TokenPair, error) {
	access, err := s.IssueAccessToken(userID, userType)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(userID, userType)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken checks signature and expiry against the access
// secret and returns the claims.
func (s *TokenService) VerifyAccessToken(tokenString string) (*TokenClaims, error) {
	return s.verify(tokenString, []byte(s.cfg.AccessSecret))
}

// VerifyRefreshToken checks signature and expiry against the refresh
// secret and returns the claims. Callers must additionally compare the
// token against the account's stored refresh token.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*TokenClaims, error) {
	return s.verify(tokenString, []byte(s.cfg.RefreshSecret))
}

func (s *TokenService) issue(userID uuid.UUID, userType models.UserType, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// verify distinguishes expiry, bad signature, and everything else; all
// three surface the same generic message to clients but are logged apart.
func (s *TokenService) verify(tokenString string, secret []byte) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domainErrors.ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domainErrors.ErrTokenSignatureInvalid
		default:
			return nil, domainErrors.ErrMalformedToken
		}
	}
	if !token.Valid {
		return nil, domainErrors.ErrMalformedToken
	}
	return claims, nil
}
