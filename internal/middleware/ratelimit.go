package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aremont/college-appointments/internal/config"
)

// RateLimit applies a fixed-window request limit per caller: INCR on a
// window-scoped key, EXPIRE on the first hit.  Authenticated callers
// are keyed by user id, anonymous ones by client IP.  Redis errors
// never block a request; on failure the limiter degrades to a
// pass-through and the handler chain continues.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			now := time.Now()
			window := now.Unix() / int64(cfg.Window/time.Second)
			key := fmt.Sprintf("%s:%s:%d", cfg.Prefix, callerKey(c), window)

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				c.Logger().Warnf("ratelimit: redis incr failed: %v", err)
				return next(c)
			}
			if count == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}

			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				retry := int64(cfg.Window/time.Second) - (now.Unix() % int64(cfg.Window/time.Second))
				c.Response().Header().Set("Retry-After", strconv.FormatInt(retry, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too many requests",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}

// callerKey identifies the requester for rate limiting: the JWT subject
// when present, the client IP otherwise.
func callerKey(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		return fmt.Sprintf("user:%v", v)
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
