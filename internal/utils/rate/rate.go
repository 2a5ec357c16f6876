// Package rate implements a fixed-window request limiter on Redis.
package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Limiter throttles requests per key over a fixed window. Redis failures
// fail open: an unavailable limiter must not lock users out.
type Limiter struct {
	client *redis.Client
	logger *zap.Logger
}

// NewLimiter creates a Limiter on the given Redis client.
func NewLimiter(client *redis.Client, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, logger: logger}
}

// Allow reports whether another request under key fits within limit
// requests per window.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := fmt.Sprintf("rate:%s", key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Error("Failed to increment rate limit counter",
			zap.Error(err), zap.String("key", key))
		return true, err
	}

	// First hit in the window starts its expiry clock.
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
			l.logger.Error("Failed to set rate limit window",
				zap.Error(err), zap.String("key", key))
			return true, err
		}
	}

	return count <= int64(limit), nil
}
