package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ezchef/ezchef/backend/internal/logger"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter is a fixed-window counter stored in Redis. A nil *RateLimiter allows everything.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// NewLoginRateLimiter limits login attempts per client IP
func NewLoginRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:login",
	})
}

// NewRecipeCreationRateLimiter limits recipe creation per user
func NewRecipeCreationRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_creation",
	})
}

// Config returns the limiter settings
func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.config
}

func (rl *RateLimiter) key(subject string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, subject, windowStart.Unix())
}

// IsAllowed counts a request for subject and reports whether it fits in the current window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, subject string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	key := rl.key(subject, windowStart)

	pipe := rl.redis.TxPipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// GetRemainingRequests returns the number of remaining requests without counting one
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, subject string) (int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)

	count, err := rl.redis.Get(ctx, rl.key(subject, windowStart)).Int()
	if errors.Is(err, redis.Nil) {
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}

// RateLimitMiddleware enforces the limit per authenticated user. It must run after AuthMiddleware.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	if rl == nil {
		return passThrough
	}
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			AbortWithError(c, http.StatusUnauthorized, CodeUnauthorized, "user not authenticated")
			return
		}
		rl.enforce(c, strconv.FormatUint(uint64(userID), 10))
	}
}

// ClientIPRateLimitMiddleware enforces the limit per client IP
func (rl *RateLimiter) ClientIPRateLimitMiddleware() gin.HandlerFunc {
	if rl == nil {
		return passThrough
	}
	return func(c *gin.Context) {
		rl.enforce(c, c.ClientIP())
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

func (rl *RateLimiter) enforce(c *gin.Context, subject string) {
	allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), subject)
	if err != nil {
		// fail open
		logger.Warn("rate limit check failed",
			zap.String("limiter", rl.config.KeyPrefix),
			zap.Error(err),
		)
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

	if !allowed {
		rateLimitRejections.WithLabelValues(rl.config.KeyPrefix).Inc()
		retryAfter := int(resetTime.Sub(rl.now()).Seconds()) + 1
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		AbortWithError(c, http.StatusTooManyRequests, CodeTooManyRequests,
			fmt.Sprintf("rate limit of %d requests per %v exceeded", rl.config.Limit, rl.config.Window))
		return
	}

	c.Next()
}
