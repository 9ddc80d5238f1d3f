package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/place-finder/internal/cache"
	"github.com/octobees/place-finder/internal/config"
)

// Counter increments a shared counter and returns its new value, or 0 when
// the backing store is unavailable.
type Counter interface {
	Increment(ctx context.Context, parts ...string) int64
}

// Quota enforces a fixed-window request quota per client IP on a shared
// counter, so every replica sees the same budget. Windows longer than the
// counter expiry fall back to the in-process limiter. Requests are allowed
// when the counter is unavailable.
func Quota(counter Counter, scope string, cfg config.RateLimitConfig, now func() time.Time) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return passthrough
	}
	if counter == nil || cfg.Interval > cache.CounterTTL {
		return RateLimiter(cfg)
	}
	if now == nil {
		now = time.Now
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current := now()
			window := current.Truncate(cfg.Interval)
			n := counter.Increment(c.Request().Context(), "quota", scope, c.RealIP(), strconv.FormatInt(window.Unix(), 10))

			reset := window.Add(cfg.Interval)
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			if n > 0 {
				h.Set("X-RateLimit-Remaining", strconv.FormatInt(max(int64(cfg.Requests)-n, 0), 10))
			}
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if n > int64(cfg.Requests) {
				h.Set("Retry-After", strconv.Itoa(int(reset.Sub(current).Seconds())+1))
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"status":     "error",
					"message":    "query quota exceeded",
					"request_id": RequestIDFromContext(c),
				})
			}
			return next(c)
		}
	}
}
