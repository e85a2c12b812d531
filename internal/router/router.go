package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/auth"
	"github.com/iliyamo/university-admin/internal/handler"
	"github.com/iliyamo/university-admin/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes. Unauthenticated operations
// live under /v1/auth, while the session endpoints that need a valid access
// token (profile, change-password) live under /v1 behind the authenticate
// middleware. The rate limiter runs after authentication on gated groups so
// its bucket key sees the resolved user; on the public auth group it keys by
// client IP.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authn, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Exchanges a refresh token for a fresh access token. The new token
	// reflects the user's current role, not the role at login time.
	g.POST("/refresh", a.Refresh)
	// Logout takes no server-side action: tokens are stateless and simply
	// expire. The endpoint exists so clients have a uniform call to make.
	g.POST("/logout", a.Logout)

	p := e.Group("/v1", authn, limit)
	p.GET("/profile", a.Profile)
	p.POST("/change-password", a.ChangePassword)
}

// RegisterCourses registers course and lesson endpoints under /v1. All of
// them require a valid access token; fine-grained role and ownership checks
// happen inside the handlers. Listing is cached.
func RegisterCourses(e *echo.Echo, co *handler.CourseHandler, le *handler.LessonHandler, authn, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", authn, limit)

	g.GET("/courses", co.List, cache)
	g.POST("/courses", co.Create)
	g.GET("/courses/:id", co.Get)
	g.PUT("/courses/:id", co.Update)
	g.PATCH("/courses/:id", co.Update) // allow partial updates via PATCH as well
	g.DELETE("/courses/:id", co.Delete)

	g.POST("/courses/:id/lessons", le.Create)
	g.GET("/lessons", le.List, cache)
	g.GET("/lessons/:id", le.Get)
	g.PUT("/lessons/:id", le.Update)
	g.PATCH("/lessons/:id", le.Update)
	g.DELETE("/lessons/:id", le.Delete)
}

// RegisterEvents registers schedule endpoints under /v1.
func RegisterEvents(e *echo.Echo, ev *handler.EventHandler, authn, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", authn, limit)

	g.GET("/events", ev.List, cache)
	g.GET("/events/date/:year/:month/:day", ev.ListByDate)
	g.GET("/events/:id", ev.Get)
	g.POST("/events", ev.Create)
	g.PUT("/events/:id", ev.Update)
	g.PATCH("/events/:id", ev.Update)
	g.DELETE("/events/:id", ev.Delete)
}

// RegisterUsers registers the admin-only user management endpoints. The
// whole group sits behind the user.admin permission gate, so non-admin
// callers get a uniform 403 regardless of the specific route.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, authn, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/users",
		authn,
		limit,
		middleware.RequirePermission(auth.OpUserAdmin),
	)

	g.GET("", u.List)
	g.POST("", u.Create)
	g.GET("/roles", u.Roles)
	g.GET("/:id", u.Get)
	g.PUT("/:id", u.Update)
	g.PATCH("/:id", u.Update)
	g.DELETE("/:id", u.Delete)
}
