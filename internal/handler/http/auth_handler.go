// Package http holds the gin handlers and routing for the auth API.
package http

import (
	"errors"
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/hackhub/auth-service/internal/domain/errors"
	"github.com/hackhub/auth-service/internal/domain/models"
	"github.com/hackhub/auth-service/internal/handler/http/middleware"
	"github.com/hackhub/auth-service/internal/service"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type signUpRequest struct {
	Name           string  `json:"name" binding:"required,min=2,max=50"`
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=6,max=50"`
	UserType       string  `json:"userType" binding:"required,oneof=participant organizer judge"`
	Phone          *string `json:"phone" binding:"omitempty,numeric,min=10,max=15"`
	ProfilePicture *string `json:"profilePicture" binding:"omitempty,url"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type sessionResponse struct {
	User         *models.PublicUser `json:"user"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidationError(c, validationDetails(err)...)
		return
	}

	user, pair, err := h.authService.SignUp(c.Request.Context(), service.SignUpInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		UserType:       models.UserType(req.UserType),
		Phone:          req.Phone,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	RespondSuccess(c, stdhttp.StatusCreated, "User registered successfully", sessionResponse{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidationError(c, validationDetails(err)...)
		return
	}

	user, pair, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	RespondSuccess(c, stdhttp.StatusOK, "Login successful", sessionResponse{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout handles POST /auth/logout. It runs behind the authentication
// gate and clears only the stored refresh token; the presented access
// token remains usable until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		RespondError(c, stdhttp.StatusUnauthorized, domainErrors.ErrUnauthorized.Error())
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	RespondSuccess(c, stdhttp.StatusOK, "Logout successful", nil)
}

// Refresh handles POST /auth/refresh. The refresh token travels in the
// body only, never in a header.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidationError(c, validationDetails(err)...)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	RespondSuccess(c, stdhttp.StatusOK, "Token refreshed successfully", gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// GetProfile handles GET /auth/profile for the authenticated account.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		RespondError(c, stdhttp.StatusUnauthorized, domainErrors.ErrUnauthorized.Error())
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	RespondSuccess(c, stdhttp.StatusOK, "Profile fetched successfully", gin.H{"user": user.Public()})
}

// GetUser handles GET /auth/users/:id, restricted to organizers.
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondValidationError(c, "id must be a valid UUID")
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), id)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	RespondSuccess(c, stdhttp.StatusOK, "Profile fetched successfully", gin.H{"user": user.Public()})
}

func contextUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// validationDetails flattens a binding error into human-readable
// messages for the error envelope.
func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
		}
		return details
	}
	return []string{"request body is not valid JSON"}
}
