package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/auth"
)

// RequirePermission enforces that the authenticated principal may perform op
// according to the permission table. It is meant for route groups where every
// endpoint shares one operation (the admin user-management group); resource
// handlers with ownership rules perform their own auth.CanOwn check instead.
// It assumes Authenticate ran earlier in the chain. Authorization failures
// are always 403, never 401.
func RequirePermission(op auth.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := Principal(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !auth.Can(u, op) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
