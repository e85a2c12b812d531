package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/university-admin/internal/config"
	"github.com/iliyamo/university-admin/internal/model"
)

func cacheCtx(target, role string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/courses")
	if role != "" {
		c.Set(RoleKey, role)
	}
	return c
}

// Course listings are filtered by role, so a response cached for a staff
// principal must never be keyed the same as a student's.
func TestCacheKeySeparatesRoles(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	admin := cacheKeyFrom(cfg, cacheCtx("/v1/courses", model.RoleAdmin))
	student := cacheKeyFrom(cfg, cacheCtx("/v1/courses", model.RoleStudent))
	anon := cacheKeyFrom(cfg, cacheCtx("/v1/courses", ""))

	assert.NotEqual(t, admin, student)
	assert.NotEqual(t, student, anon)
	assert.NotEqual(t, admin, anon)
}

func TestCacheKeyStableWithinRole(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, cacheCtx("/v1/courses?page=2", model.RoleStudent))
	b := cacheKeyFrom(cfg, cacheCtx("/v1/courses?page=2", model.RoleStudent))
	assert.Equal(t, a, b)

	other := cacheKeyFrom(cfg, cacheCtx("/v1/courses?page=3", model.RoleStudent))
	assert.NotEqual(t, a, other)
}

func TestCacheKeyVariesByRoleAcrossStrategies(t *testing.T) {
	for _, strategy := range []string{"route", "method_route", "method_route_query", "route_query"} {
		cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: strategy}
		prof := cacheKeyFrom(cfg, cacheCtx("/v1/courses", model.RoleProfessor))
		student := cacheKeyFrom(cfg, cacheCtx("/v1/courses", model.RoleStudent))
		assert.NotEqual(t, prof, student, "strategy %s", strategy)
	}
}
