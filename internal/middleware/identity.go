package middleware

// identity.go provides helpers for reading the authenticated principal back
// out of the Echo context. The rate limiter uses currentUserID for bucket
// keys and falls back to "anon" for unauthenticated requests.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/model"
)

// Principal returns the authenticated user stored by Authenticate. The
// second result is false when the route was not behind the gate.
func Principal(c echo.Context) (model.User, bool) {
	u, ok := c.Get(PrincipalKey).(model.User)
	return u, ok
}

// currentUserID returns the authenticated user's id as a string, or "anon".
func currentUserID(c echo.Context) string {
	if id, ok := c.Get(UserIDKey).(uint64); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}

// currentUserRole returns the authenticated user's role, or "anon".
func currentUserRole(c echo.Context) string {
	if role, ok := c.Get(RoleKey).(string); ok && role != "" {
		return role
	}
	return "anon"
}
