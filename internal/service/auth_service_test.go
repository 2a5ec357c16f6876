package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/hackhub/auth-service/internal/domain/errors"
	"github.com/hackhub/auth-service/internal/domain/models"
	"github.com/hackhub/auth-service/internal/utils/password"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) FindByIDWithRefreshToken(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// testHashCosts keeps argon2 cheap in tests.
var testHashCosts = &password.Params{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newTestAuthService(repo *mockUserRepository) (*AuthService, *TokenService) {
	tokens := NewTokenService(testJWTConfig())
	return NewAuthService(repo, tokens, testHashCosts, nil, zap.NewNop()), tokens
}

func TestSignUp(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	userID := uuid.New()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "harry@hogwarts.edu" && u.IsActive && u.PasswordHash != "secret123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = userID
	}).Return(nil)
	repo.On("UpdateRefreshToken", mock.Anything, userID, mock.AnythingOfType("*string")).Return(nil)

	user, pair, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Harry Potter",
		Email:    "Harry@Hogwarts.EDU",
		Password: "secret123",
		UserType: models.UserTypeParticipant,
	})
	require.NoError(t, err)
	assert.Equal(t, "harry@hogwarts.edu", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	ok, err := password.Verify("secret123", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
	repo.AssertExpectations(t)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(domainErrors.ErrEmailExists)

	_, _, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Harry Potter",
		Email:    "harry@hogwarts.edu",
		Password: "secret123",
		UserType: models.UserTypeParticipant,
	})
	assert.ErrorIs(t, err, domainErrors.ErrEmailExists)
	repo.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func signedUpUser(t *testing.T, id uuid.UUID, plaintext string) *models.User {
	t.Helper()
	hash, err := password.Hash(plaintext, testHashCosts)
	require.NoError(t, err)
	return &models.User{
		ID:           id,
		Name:         "Harry Potter",
		Email:        "harry@hogwarts.edu",
		PasswordHash: hash,
		UserType:     models.UserTypeParticipant,
		IsActive:     true,
	}
}

func TestSignIn(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	userID := uuid.New()
	user := signedUpUser(t, userID, "secret123")

	repo.On("FindByEmailWithPassword", mock.Anything, "harry@hogwarts.edu").Return(user, nil)
	repo.On("UpdateRefreshToken", mock.Anything, userID, mock.AnythingOfType("*string")).Return(nil)
	repo.On("UpdateLastLogin", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(nil)

	got, pair, err := svc.SignIn(context.Background(), " Harry@Hogwarts.edu ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
	assert.NotNil(t, got.LastLoginAt)
	assert.NotEmpty(t, pair.AccessToken)
	repo.AssertExpectations(t)
}

func TestSignInUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	user := signedUpUser(t, uuid.New(), "secret123")
	repo.On("FindByEmailWithPassword", mock.Anything, "harry@hogwarts.edu").Return(user, nil)
	repo.On("FindByEmailWithPassword", mock.Anything, "nobody@hogwarts.edu").Return(nil, domainErrors.ErrUserNotFound)

	_, _, wrongPassword := svc.SignIn(context.Background(), "harry@hogwarts.edu", "wrong")
	_, _, unknownEmail := svc.SignIn(context.Background(), "nobody@hogwarts.edu", "secret123")

	assert.ErrorIs(t, wrongPassword, domainErrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domainErrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	repo.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignInDeactivatedAccount(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	user := signedUpUser(t, uuid.New(), "secret123")
	user.IsActive = false
	repo.On("FindByEmailWithPassword", mock.Anything, "harry@hogwarts.edu").Return(user, nil)

	_, _, err := svc.SignIn(context.Background(), "harry@hogwarts.edu", "secret123")
	assert.ErrorIs(t, err, domainErrors.ErrAccountDeactivated)
}

func TestLogoutClearsRefreshToken(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	userID := uuid.New()
	repo.On("UpdateRefreshToken", mock.Anything, userID, (*string)(nil)).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), userID))
	// Logout of an already-cleared session succeeds again.
	require.NoError(t, svc.Logout(context.Background(), userID))
	repo.AssertNumberOfCalls(t, "UpdateRefreshToken", 2)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := new(mockUserRepository)
	svc, tokens := newTestAuthService(repo)

	userID := uuid.New()
	current, err := tokens.IssueRefreshToken(userID, models.UserTypeParticipant)
	require.NoError(t, err)

	user := signedUpUser(t, userID, "secret123")
	user.RefreshToken = &current

	var stored *string
	repo.On("FindByIDWithRefreshToken", mock.Anything, userID).Return(user, nil)
	repo.On("UpdateRefreshToken", mock.Anything, userID, mock.AnythingOfType("*string")).
		Run(func(args mock.Arguments) { stored = args.Get(2).(*string) }).
		Return(nil)

	pair, err := svc.Refresh(context.Background(), current)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	require.NotNil(t, stored)
	assert.Equal(t, pair.RefreshToken, *stored)
}

func TestRefreshRejectsRotatedOutToken(t *testing.T) {
	repo := new(mockUserRepository)
	svc, tokens := newTestAuthService(repo)

	userID := uuid.New()
	old, err := tokens.IssueRefreshToken(userID, models.UserTypeParticipant)
	require.NoError(t, err)
	current := "some-newer-token"

	user := signedUpUser(t, userID, "secret123")
	user.RefreshToken = &current
	repo.On("FindByIDWithRefreshToken", mock.Anything, userID).Return(user, nil)

	// The old token still carries a valid signature, but the account has
	// moved on; replaying it must fail.
	_, err = svc.Refresh(context.Background(), old)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
	repo.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshAfterLogout(t *testing.T) {
	repo := new(mockUserRepository)
	svc, tokens := newTestAuthService(repo)

	userID := uuid.New()
	token, err := tokens.IssueRefreshToken(userID, models.UserTypeParticipant)
	require.NoError(t, err)

	user := signedUpUser(t, userID, "secret123")
	user.RefreshToken = nil
	repo.On("FindByIDWithRefreshToken", mock.Anything, userID).Return(user, nil)

	_, err = svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestRefreshMissingToken(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	for _, presented := range []string{"", "   "} {
		_, err := svc.Refresh(context.Background(), presented)
		assert.ErrorIs(t, err, domainErrors.ErrMissingRefreshToken)
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	cfg := testJWTConfig()
	cfg.RefreshTokenTTL = -time.Minute
	expired, err := NewTokenService(cfg).IssueRefreshToken(uuid.New(), models.UserTypeParticipant)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), expired)
	assert.ErrorIs(t, err, domainErrors.ErrRefreshTokenExpired)
}

func TestRefreshGarbageToken(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidRefreshToken)
}

func TestRefreshUnknownUser(t *testing.T) {
	repo := new(mockUserRepository)
	svc, tokens := newTestAuthService(repo)

	userID := uuid.New()
	token, err := tokens.IssueRefreshToken(userID, models.UserTypeParticipant)
	require.NoError(t, err)

	repo.On("FindByIDWithRefreshToken", mock.Anything, userID).Return(nil, domainErrors.ErrUserNotFound)

	_, err = svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestGetProfile(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	userID := uuid.New()
	user := signedUpUser(t, userID, "secret123")
	repo.On("FindByID", mock.Anything, userID).Return(user, nil)

	got, err := svc.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
}

func TestGetProfileNotFound(t *testing.T) {
	repo := new(mockUserRepository)
	svc, _ := newTestAuthService(repo)

	userID := uuid.New()
	repo.On("FindByID", mock.Anything, userID).Return(nil, domainErrors.ErrUserNotFound)

	_, err := svc.GetProfile(context.Background(), userID)
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
}
