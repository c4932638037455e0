// Package router registers the HTTP routes of the booking service.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sevahub/home-services/internal/config"
	"github.com/sevahub/home-services/internal/handler"
	"github.com/sevahub/home-services/internal/middleware"
	"github.com/sevahub/home-services/internal/model"
	"github.com/sevahub/home-services/internal/ratelimit"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBookings wires the admission and read endpoints under /v1.
// The IP-scoped rate limit runs before authentication; reads go
// through the per-user response cache.  Workers authenticate with the
// same tokens but cannot create bookings for themselves, so the role
// guard admits only customers and admins.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string,
	rlCfg config.RateLimitConfig, cacheCfg config.CacheConfig,
	limiter *ratelimit.Limiter, rdb *redis.Client) {

	e.Use(middleware.NewIPRateLimit(rlCfg, limiter))

	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	g.POST("", b.Create)

	cached := middleware.NewRedisCache(cacheCfg, rdb)
	g.GET("", b.List, cached)
	g.GET("/:id", b.Get, cached)
}
