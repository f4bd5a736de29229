package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/venue-booking/internal/config"
	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the protected
// profile route. Unauthenticated operations live under /v1/auth; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints. When a
// Redis client is available they sit behind the rate limiter and the
// response cache; with rdb == nil both middlewares are pass-throughs.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
	g := e.Group("/v1/public")
	g.Use(middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb))
	g.Use(middleware.NewResponseCache(config.LoadCacheConfig(), rdb))

	g.GET("/branches", p.ListBranches)
	g.GET("/branches/:id/halls", p.ListHallsByBranch)
	g.GET("/halls/:id/sessions", p.ListSessionsByHall)
	g.GET("/sessions/:id", p.GetSession)
}

// RegisterOwner registers the management endpoints: branches, halls,
// session templates, manual sessions and the job triggers. All of them
// require the OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, j *handler.JobHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER"))

	g.POST("/branches", o.CreateBranch)
	g.GET("/branches", o.ListBranches)
	g.PUT("/branches/:id", o.UpdateBranch)

	g.POST("/branches/:id/halls", o.CreateHall)
	g.GET("/branches/:id/halls", o.ListHalls)
	g.PUT("/halls/:id", o.UpdateHall)

	g.POST("/halls/:id/templates", o.CreateTemplate)
	g.GET("/halls/:id/templates", o.ListTemplates)
	g.PUT("/templates/:id", o.UpdateTemplate)
	g.DELETE("/templates/:id", o.DeleteTemplate)

	g.POST("/halls/:id/sessions", o.CreateSession)

	g.POST("/admin/jobs/materialize", j.Materialize)
	g.POST("/admin/jobs/reconcile", j.Reconcile)
}

// RegisterCustomer registers the booking endpoints for authenticated
// customers.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER"))

	g.POST("/sessions/:id/reservations", h.CreateReservation)
	g.GET("/reservations", h.ListMyReservations)
	g.DELETE("/reservations/:id", h.CancelReservation)
}
