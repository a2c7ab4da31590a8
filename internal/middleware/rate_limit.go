package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/hannahhealth/sms-gateway/backend/internal/sms"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of messages allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// NewSMSRateLimiter limits inbound messages per phone number (30 per hour)
func NewSMSRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     30,
		KeyPrefix: "rate_limit:sms",
	})
}

// SMSRateLimitMiddleware returns a Gin middleware keyed by the inbound From
// number. Over-limit messages are acknowledged without an answer so an
// abusive or looping sender cannot drain the AI budget.
func (rl *RateLimiter) SMSRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		from := c.PostForm("From")
		if from == "" {
			c.Next()
			return
		}

		allowed, _, _, err := rl.IsAllowed(c.Request.Context(), from)
		if err != nil {
			// A broken limiter must not block messages
			log.Printf("rate limit check failed for %s: %v", from, err)
			c.Next()
			return
		}

		if !allowed {
			c.Data(http.StatusOK, "text/xml", []byte(sms.EmptyTwiML()))
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsAllowed checks if a message from the given phone number is allowed
// Returns: allowed, remaining messages, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, phone string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, phone, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	allowed := count <= rl.config.Limit

	return allowed, remaining, resetTime, nil
}
