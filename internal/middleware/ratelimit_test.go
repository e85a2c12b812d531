package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-admin/internal/config"
	"github.com/iliyamo/university-admin/internal/model"
)

func TestBuildRateKeyUsesPrincipal(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/courses", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/courses")

	anon := buildRateKey(cfg, c)
	assert.Contains(t, anon, ":user:anon:")

	c.Set(UserIDKey, uint64(42))
	keyed := buildRateKey(cfg, c)
	assert.Contains(t, keyed, ":user:42:")
	assert.NotEqual(t, anon, keyed)
}

// The limiter is registered after the authentication gate on protected
// groups; this pins down that a middleware in that position sees the
// resolved user id, so per-user budgets actually apply.
func TestLimiterAfterGateSeesUserID(t *testing.T) {
	user := model.User{ID: 7, Email: "prof@uni.test", Role: model.RoleProfessor, IsActive: true}
	store := &stubStore{users: map[uint64]model.User{user.ID: user}}
	issuer, gate := newAuthStack(t, store)

	var seen string
	capture := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			seen = currentUserID(c)
			return next(c)
		}
	}

	e := echo.New()
	e.GET("/v1/courses", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, gate, capture)

	access, err := issuer.Access(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/courses", nil)
	req.Header.Set("Authorization", "Bearer "+access.Value)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", seen)
}
