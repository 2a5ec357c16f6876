// Package middleware contains the gin middleware chain: the
// authentication gate, role authorization, and the cross-cutting
// request middleware (logging, recovery, CORS, metrics, rate limiting).
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/hackhub/auth-service/internal/domain/errors"
	"github.com/hackhub/auth-service/internal/domain/models"
	"github.com/hackhub/auth-service/internal/domain/repository"
	"github.com/hackhub/auth-service/internal/service"
	"github.com/hackhub/auth-service/internal/utils/metrics"
)

const (
	authHeaderKey  = "Authorization"
	authTypeBearer = "Bearer"

	// ContextUserIDKey and ContextUserTypeKey are the gin context keys
	// the gate populates. The full account is deliberately not attached.
	ContextUserIDKey   = "userID"
	ContextUserTypeKey = "userType"
)

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"message": message},
	})
}

// extractBearerToken pulls the token out of the Authorization header.
// The second return reports which failure message applies when empty.
func extractBearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader(authHeaderKey)
	if authHeader == "" {
		return "", domainErrors.ErrUnauthorized.Error()
	}
	if !strings.HasPrefix(authHeader, authTypeBearer+" ") {
		return "", domainErrors.ErrInvalidToken.Error()
	}
	token := strings.TrimSpace(authHeader[len(authTypeBearer)+1:])
	if token == "" {
		return "", domainErrors.ErrInvalidToken.Error()
	}
	return token, ""
}

// Authenticate is the primary authorization gate. It validates the
// bearer access token, resolves the acting account, rejects unknown or
// deactivated accounts, and attaches the account id and type to the
// request context.
func Authenticate(tokens *service.TokenService, users repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, failMsg := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, failMsg)
			return
		}

		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			logger.Warn("Access token validation failed",
				zap.Error(err), zap.String("client_ip", c.ClientIP()))
			abortUnauthorized(c, err.Error())
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, domainErrors.ErrInvalidToken.Error())
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, domainErrors.ErrUserNotFound.Error())
			return
		}
		if !user.IsActive {
			abortUnauthorized(c, domainErrors.ErrAccountDeactivated.Error())
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserTypeKey, user.UserType)

		metrics.AuthenticatedRequestsTotal.Inc()
		c.Next()
	}
}

// Authorize requires the already-resolved account type to be in the
// allowed set. It must run after Authenticate.
func Authorize(allowedTypes ...models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserTypeKey)
		if !exists {
			abortUnauthorized(c, domainErrors.ErrUnauthorized.Error())
			return
		}
		userType, ok := value.(models.UserType)
		if !ok {
			abortUnauthorized(c, domainErrors.ErrUnauthorized.Error())
			return
		}

		for _, allowed := range allowedTypes {
			if userType == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"message": domainErrors.ErrForbidden.Error()},
		})
	}
}

// OptionalAuthenticate performs the same resolution as Authenticate but
// never fails the request: on any error it proceeds without attaching an
// identity, so downstream logic sees the caller as anonymous.
func OptionalAuthenticate(tokens *service.TokenService, users repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := extractBearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			logger.Debug("Optional authentication skipped invalid token", zap.Error(err))
			c.Next()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.Next()
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err == nil && user.IsActive {
			c.Set(ContextUserIDKey, user.ID)
			c.Set(ContextUserTypeKey, user.UserType)
		}
		c.Next()
	}
}
