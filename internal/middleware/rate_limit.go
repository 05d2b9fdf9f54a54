package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
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

// RateLimiter counts requests per user in fixed windows stored in Redis.
// When Redis is not configured or unreachable requests are let through.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	log    *zap.SugaredLogger
}

// NewRateLimiter creates a new rate limiter instance. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, log *zap.SugaredLogger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		log:    log,
	}
}

// NewRecipeCreationRateLimiter limits how many recipes a user may publish per window.
func NewRecipeCreationRateLimiter(redisClient *redis.Client, window time.Duration, limit int, log *zap.SugaredLogger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_creation",
	}, log)
}

// NewRecipeModificationRateLimiter limits edits and deletes per recipe per window.
func NewRecipeModificationRateLimiter(redisClient *redis.Client, window time.Duration, limit int, log *zap.SugaredLogger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_modification",
	}, log)
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
// per user. It must run after AuthMiddleware.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.enforce(c, strconv.FormatUint(uint64(CurrentUserID(c)), 10), "requests")
	}
}

// PerRecipeRateLimitMiddleware limits requests per (user, recipe) pair,
// taking the recipe from the :id route parameter.
func (rl *RateLimiter) PerRecipeRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%d:%s", CurrentUserID(c), c.Param("id"))
		rl.enforce(c, key, "modifications per recipe")
	}
}

func (rl *RateLimiter) enforce(c *gin.Context, key, what string) {
	if rl.redis == nil || CurrentUserID(c) == 0 {
		c.Next()
		return
	}

	allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), key)
	if err != nil {
		rl.log.Warnw("rate limit check failed", "key", key, "error", err)
		c.Header("X-RateLimit-Error", "rate limit check failed")
		c.Next()
		return
	}

	// Set rate limit headers
	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

	if !allowed {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"errors":      fmt.Sprintf("rate limit of %d %s per %v exceeded", rl.config.Limit, what, rl.config.Window),
			"retry_after": int(time.Until(resetTime).Seconds()),
		})
		return
	}

	c.Next()
}

// IsAllowed counts a request for key and reports whether it fits in the
// current window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	return count <= rl.config.Limit, remaining, resetTime, nil
}
