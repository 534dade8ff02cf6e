package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit is a fixed-window per-caller counter backed by redis. On redis
// failure requests pass through; throttling is best-effort protection for
// the booking endpoints, not a correctness mechanism.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || limit <= 0 {
				return next(c)
			}

			id := c.RealIP()
			if caller, ok := CallerFrom(c); ok {
				id = caller.CustomerID
			}
			key := fmt.Sprintf("ratelimit:%s:%d", id, time.Now().Unix()/int64(window.Seconds()))

			ctx := c.Request().Context()
			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Printf("[ratelimit] redis error for %s: %v", id, err)
				return next(c)
			}
			if count == 1 {
				rdb.Expire(ctx, key, window)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			remaining := limit - int(count)
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if count > int64(limit) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
