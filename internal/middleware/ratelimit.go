package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/review-catalog/internal/config"
)

// RateLimit returns a fixed-window limiter keyed by client IP and route.
// The first request in a window creates a counter with the window as TTL;
// once the counter passes the limit the request is rejected with 429 and a
// Retry-After header. When redis is unavailable or the limiter is disabled
// the middleware is a pass-through, matching how the rest of the service
// degrades without redis.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, c.RealIP(), c.Path())
			ctx := c.Request().Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis trouble must not take the API down.
				return next(c)
			}
			if count == 1 {
				if err := rdb.Expire(ctx, key, cfg.Window).Err(); err != nil {
					// A counter without expiry would limit this client
					// forever; drop it and let the request through.
					rdb.Del(ctx, key)
					return next(c)
				}
			}

			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				ttl, err := rdb.TTL(ctx, key).Result()
				if err != nil {
					ttl = cfg.Window
				}
				if ttl < 0 {
					// The counter lost its expiry (Incr and Expire are
					// separate commands); restore the window so the limit
					// eventually lifts.
					rdb.Expire(ctx, key, cfg.Window)
					ttl = cfg.Window
				}
				h.Set("Retry-After", strconv.Itoa(int(ttl/time.Second)+1))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
