package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hackhub/auth-service/internal/config"
	"github.com/hackhub/auth-service/internal/domain/models"
	"github.com/hackhub/auth-service/internal/domain/repository"
	"github.com/hackhub/auth-service/internal/handler/http/middleware"
	"github.com/hackhub/auth-service/internal/service"
	"github.com/hackhub/auth-service/internal/utils/rate"
)

// SetupRouter wires middleware, handlers, and routes.
func SetupRouter(
	authService *service.AuthService,
	tokenService *service.TokenService,
	users repository.UserRepository,
	limiter *rate.Limiter,
	cfg *config.Config,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CorsMiddleware())
	router.Use(middleware.MetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(authService, logger)
	authenticate := middleware.Authenticate(tokenService, users, logger)
	throttle := middleware.RateLimitMiddleware(limiter, cfg.RateLimit, logger)

	auth := router.Group("/auth")
	{
		auth.POST("/signup", throttle, authHandler.SignUp)
		auth.POST("/signin", throttle, authHandler.SignIn)
		auth.POST("/refresh", authHandler.Refresh)

		auth.POST("/logout", authenticate, authHandler.Logout)
		auth.GET("/profile", authenticate, authHandler.GetProfile)
		auth.GET("/users/:id", authenticate,
			middleware.Authorize(models.UserTypeOrganizer), authHandler.GetUser)
	}

	return router
}
