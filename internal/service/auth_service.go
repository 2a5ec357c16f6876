// Package service contains the authentication business logic: credential
// verification, token issuance, and refresh rotation.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/hackhub/auth-service/internal/domain/errors"
	"github.com/hackhub/auth-service/internal/domain/models"
	"github.com/hackhub/auth-service/internal/domain/repository"
	"github.com/hackhub/auth-service/internal/events"
	"github.com/hackhub/auth-service/internal/utils/metrics"
	"github.com/hackhub/auth-service/internal/utils/password"
)

// AuthService orchestrates signup, signin, logout, and refresh-token
// rotation. It enforces the single-active-refresh-token invariant: every
// successful signin or refresh overwrites the account's stored refresh
// token, invalidating the previous one.
type AuthService struct {
	users     repository.UserRepository
	tokens    *TokenService
	hashCosts *password.Params
	publisher events.Publisher
	logger    *zap.Logger
}

// SignUpInput carries the validated signup fields. Validation happens at
// the HTTP boundary; the service assumes well-formed input.
type SignUpInput struct {
	Name           string
	Email          string
	Password       string
	UserType       models.UserType
	Phone          *string
	ProfilePicture *string
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users repository.UserRepository,
	tokens *TokenService,
	hashCosts *password.Params,
	publisher events.Publisher,
	logger *zap.Logger,
) *AuthService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		hashCosts: hashCosts,
		publisher: publisher,
		logger:    logger,
	}
}

// NormalizeEmail lower-cases and trims an email address. All storage and
// lookups operate on the normalized form, which makes email uniqueness
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new account and starts its first session. The
// password is hashed before anything is persisted. Returns the created
// user and a fresh token pair; the refresh token is stored on the
// account. A duplicate email fails with ErrEmailExists and leaves no
// account or tokens behind.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*models.User, models.TokenPair, error) {
	hash, err := password.Hash(input.Password, s.hashCosts)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, models.TokenPair{}, domainErrors.ErrInternal
	}

	user := &models.User{
		Name:           strings.TrimSpace(input.Name),
		Email:          NormalizeEmail(input.Email),
		PasswordHash:   hash,
		UserType:       input.UserType,
		Phone:          input.Phone,
		ProfilePicture: input.ProfilePicture,
		IsActive:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domainErrors.ErrEmailExists) {
			return nil, models.TokenPair{}, domainErrors.ErrEmailExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, models.TokenPair{}, domainErrors.ErrInternal
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return nil, models.TokenPair{}, err
	}

	metrics.RegistrationsTotal.Inc()
	s.publisher.Publish(ctx, events.UserRegistered, user.ID.String())
	return user, pair, nil
}

// SignIn verifies credentials and starts a new session, killing any
// previous one by overwriting the stored refresh token. Unknown email
// and wrong password fail identically with ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, plaintext string) (*models.User, models.TokenPair, error) {
	user, err := s.users.FindByEmailWithPassword(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			metrics.SignInAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, models.TokenPair{}, domainErrors.ErrInvalidCredentials
		}
		s.logger.Error("Failed to load user for signin", zap.Error(err))
		return nil, models.TokenPair{}, domainErrors.ErrInternal
	}

	if !user.IsActive {
		metrics.SignInAttemptsTotal.WithLabelValues("deactivated").Inc()
		return nil, models.TokenPair{}, domainErrors.ErrAccountDeactivated
	}

	// A verification error (malformed stored hash) is reported to the
	// caller exactly like a mismatch.
	ok, err := password.Verify(plaintext, user.PasswordHash)
	if err != nil {
		s.logger.Warn("Password verification failed on malformed hash",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	if err != nil || !ok {
		metrics.SignInAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, models.TokenPair{}, domainErrors.ErrInvalidCredentials
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return nil, models.TokenPair{}, err
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error("Failed to update last login",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, models.TokenPair{}, domainErrors.ErrInternal
	}
	user.LastLoginAt = &now

	metrics.SignInAttemptsTotal.WithLabelValues("success").Inc()
	s.publisher.Publish(ctx, events.UserLoggedIn, user.ID.String())
	return user, pair, nil
}

// Logout clears the account's stored refresh token. It is idempotent:
// logging out an already-logged-out (or missing) account succeeds.
// Outstanding access tokens stay valid until their natural expiry.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, nil); err != nil {
		s.logger.Error("Failed to clear refresh token",
			zap.String("user_id", userID.String()), zap.Error(err))
		return domainErrors.ErrInternal
	}
	s.publisher.Publish(ctx, events.UserLoggedOut, userID.String())
	return nil
}

// Refresh rotates a refresh token: it verifies the presented token,
// requires exact equality with the account's stored token, then issues
// and stores a brand-new pair. A rotated-out token is rejected even
// before it expires, which is what defeats replay of stolen refresh
// tokens.
func (s *AuthService) Refresh(ctx context.Context, presented string) (models.TokenPair, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return models.TokenPair{}, domainErrors.ErrMissingRefreshToken
	}

	claims, err := s.tokens.VerifyRefreshToken(presented)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		if errors.Is(err, domainErrors.ErrExpiredToken) {
			return models.TokenPair{}, domainErrors.ErrRefreshTokenExpired
		}
		return models.TokenPair{}, domainErrors.ErrInvalidRefreshToken
	}

	userID, err := claims.UserID()
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		return models.TokenPair{}, domainErrors.ErrInvalidToken
	}

	// The stored token is read and compared against the presented one in
	// the same call; the subsequent single UPDATE is the whole rotation.
	user, err := s.users.FindByIDWithRefreshToken(ctx, userID)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return models.TokenPair{}, domainErrors.ErrInvalidToken
		}
		s.logger.Error("Failed to load user for refresh",
			zap.String("user_id", userID.String()), zap.Error(err))
		return models.TokenPair{}, domainErrors.ErrInternal
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		metrics.TokenRefreshesTotal.WithLabelValues("rejected_replay").Inc()
		s.logger.Warn("Refresh token mismatch, possible replay of rotated token",
			zap.String("user_id", userID.String()))
		return models.TokenPair{}, domainErrors.ErrInvalidToken
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return models.TokenPair{}, err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	s.publisher.Publish(ctx, events.TokenRefreshed, user.ID.String())
	return pair, nil
}

// GetProfile returns the account for id, without secret fields.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return nil, domainErrors.ErrUserNotFound
		}
		s.logger.Error("Failed to load user profile",
			zap.String("user_id", userID.String()), zap.Error(err))
		return nil, domainErrors.ErrInternal
	}
	return user, nil
}

// startSession issues a fresh token pair and stores the refresh token on
// the account, displacing whatever was there.
func (s *AuthService) startSession(ctx context.Context, user *models.User) (models.TokenPair, error) {
	pair, err := s.tokens.IssueTokenPair(user.ID, user.UserType)
	if err != nil {
		s.logger.Error("Failed to issue token pair",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return models.TokenPair{}, domainErrors.ErrInternal
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		s.logger.Error("Failed to store refresh token",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return models.TokenPair{}, domainErrors.ErrInternal
	}
	return pair, nil
}
