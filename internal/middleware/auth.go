package middleware // middleware provides reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/auth"
)

// Context keys set by Authenticate for downstream middleware and handlers.
const (
	PrincipalKey = "principal" // the resolved model.User
	UserIDKey    = "user_id"   // uint64 id, convenience copy
	RoleKey      = "role"      // string role, convenience copy
)

// Authenticate returns the gate middleware protecting all /v1 routes. It
// extracts the bearer token from the Authorization header, verifies it and
// resolves the live user via the verifier, then stores the principal in the
// request context. Every failure collapses into the same 401 response so
// clients cannot distinguish expired from tampered tokens or disabled
// accounts; the specific cause is only logged server-side.
func Authenticate(v *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			u, err := v.VerifyAccess(c.Request().Context(), raw)
			if err != nil {
				c.Logger().Debugf("access token rejected: %v", err)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(PrincipalKey, u)
			c.Set(UserIDKey, u.ID)
			c.Set(RoleKey, u.Role)
			return next(c)
		}
	}
}
