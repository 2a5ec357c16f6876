package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hackhub/auth-service/internal/config"
	"github.com/hackhub/auth-service/internal/utils/metrics"
	"github.com/hackhub/auth-service/internal/utils/rate"
)

// RateLimitMiddleware throttles a route per client IP. A nil limiter or
// disabled config turns it into a no-op, and limiter errors fail open:
// credential endpoints must stay reachable when Redis is not.
func RateLimitMiddleware(limiter *rate.Limiter, cfg config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || limiter == nil {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + c.FullPath()
		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.Limit, cfg.Window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitedTotal.Inc()
			logger.Warn("Rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
				zap.Int("limit", cfg.Limit),
				zap.Duration("window", cfg.Window),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"message": "Too many requests, please try again later"},
			})
			return
		}

		c.Next()
	}
}
