package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sevahub/home-services/internal/config"
	"github.com/sevahub/home-services/internal/ratelimit"
)

// NewIPRateLimit applies the IP-scoped sliding window before
// authentication.  It shares the Redis-backed limiter with the
// user-scoped guard inside the admission pipeline; the limiter fails
// open so Redis outages never block traffic.
func NewIPRateLimit(cfg config.RateLimitConfig, limiter *ratelimit.Limiter) echo.MiddlewareFunc {
	if !cfg.Enabled || limiter == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			d, err := limiter.Allow(c.Request().Context(), "ip:"+ip, cfg.IPLimit, cfg.IPWindow)
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] redis error for ip=%s: %v", ip, err)
				}
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.IPLimit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

			if !d.Allowed {
				secs := int(math.Ceil(d.RetryAfter.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				if cfg.Debug {
					c.Logger().Infof("[ratelimit] block ip=%s retry=%ds", ip, secs)
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"code":              "RATE_LIMITED",
					"message":           "too many requests",
					"retryAfterSeconds": secs,
				})
			}
			return next(c)
		}
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error { return next(c) }
}
