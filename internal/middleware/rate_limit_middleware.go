package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const redisOpTimeout = 2 * time.Second

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests максимальное количество запросов за Window
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

// RequestCodeRateLimitConfig лимит на выдачу кодов (защита почтового ящика от спама)
func RequestCodeRateLimitConfig(maxPerMinute int) RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: maxPerMinute,
		Window:      time.Minute,
		KeyPrefix:   "rl:auth:request-code",
	}
}

// VerifyCodeRateLimitConfig лимит на проверку кодов (защита от перебора)
func VerifyCodeRateLimitConfig(maxPerMinute int) RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: maxPerMinute,
		Window:      time.Minute,
		KeyPrefix:   "rl:auth:verify-code",
	}
}

// RateLimiter считает запросы в Redis (INCR + EXPIRE) по IP и пути.
// Ошибки Redis не блокируют запрос (fail-open). Nil-клиент отключает лимиты.
type RateLimiter struct {
	redisClient redis.UniversalClient
	logger      *slog.Logger
}

func NewRateLimiter(redisClient redis.UniversalClient, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{redisClient: redisClient, logger: logger}
}

// Limit возвращает Gin middleware с заданной конфигурацией
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.redisClient == nil || cfg.MaxRequests <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, clientIP, path)

		ctx, cancel := context.WithTimeout(c.Request.Context(), redisOpTimeout)
		defer cancel()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.Warn("rate limiter redis error, allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		// Первый запрос в окне задает TTL
		if count == 1 {
			if err := rl.redisClient.Expire(ctx, key, cfg.Window).Err(); err != nil {
				rl.logger.Warn("rate limiter failed to set ttl", "key", key, "error", err)
			}
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}

		ttl, _ := rl.redisClient.TTL(ctx, key).Result()
		retryAfter := int(ttl.Seconds())
		if retryAfter <= 0 {
			retryAfter = int(cfg.Window.Seconds())
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(retryAfter))

		if int(count) > cfg.MaxRequests {
			rl.logger.Warn("rate limit exceeded", "ip", clientIP, "path", path, "count", count, "limit", cfg.MaxRequests)

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"error_type":  "rate_limited",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
