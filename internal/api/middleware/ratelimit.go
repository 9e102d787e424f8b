package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/modernmember/member-directory/internal/api/metrics"
	"github.com/modernmember/member-directory/internal/infrastructure/db/redis"
)

// LoginRateLimit throttles a route per client IP using the Redis-backed
// fixed-window limiter. Redis trouble fails open — a throttling outage must
// not lock out every login.
func LoginRateLimit(limiter *redis.LoginLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, retryAfter, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("client", c.RealIP()).Msg("login limiter unavailable, failing open")
				return next(c)
			}
			if !allowed {
				metrics.LoginsTotal.WithLabelValues("throttled").Inc()
				secs := int(math.Ceil(retryAfter.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
			}
			return next(c)
		}
	}
}
