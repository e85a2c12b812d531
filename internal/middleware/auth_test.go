package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-admin/internal/auth"
	"github.com/iliyamo/university-admin/internal/model"
)

type stubStore struct {
	users map[uint64]model.User
}

func (s *stubStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func newAuthStack(t *testing.T, store auth.UserStore) (*auth.Issuer, echo.MiddlewareFunc) {
	t.Helper()
	cfg := auth.Config{
		Secret:     "gate-test-secret",
		Algorithm:  "HS256",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
	codec, err := auth.NewCodec(cfg)
	require.NoError(t, err)
	issuer := auth.NewIssuer(codec, cfg)
	verifier := auth.NewVerifier(codec, issuer, store)
	return issuer, Authenticate(verifier)
}

// runGate sends a request with the given Authorization header through the
// gate wrapping a handler that echoes the resolved principal's role.
func runGate(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		u, ok := Principal(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"role": u.Role})
	})
	_ = handler(c)
	return rec, c
}

func TestAuthenticateAllowsValidToken(t *testing.T) {
	u := model.User{ID: 5, Email: "s@example.edu", Role: model.RoleStudent, IsActive: true}
	store := &stubStore{users: map[uint64]model.User{u.ID: u}}
	issuer, gate := newAuthStack(t, store)

	tok, err := issuer.Access(u)
	require.NoError(t, err)

	rec, c := runGate(t, gate, "Bearer "+tok.Value)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID, c.Get(UserIDKey))
	assert.Equal(t, u.Role, c.Get(RoleKey))
}

func TestAuthenticateRejectsWithGeneric401(t *testing.T) {
	active := model.User{ID: 1, Role: model.RoleStudent, IsActive: true}
	inactive := model.User{ID: 2, Role: model.RoleStudent, IsActive: false}
	store := &stubStore{users: map[uint64]model.User{1: active, 2: inactive}}
	issuer, gate := newAuthStack(t, store)

	refreshTok, err := issuer.Refresh(active)
	require.NoError(t, err)
	inactiveTok, err := issuer.Access(inactive)
	require.NoError(t, err)
	deletedTok, err := issuer.Access(model.User{ID: 99, Role: model.RoleStudent})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"refresh token where access required", "Bearer " + refreshTok.Value},
		{"inactive principal", "Bearer " + inactiveTok.Value},
		{"deleted principal", "Bearer " + deletedTok.Value},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := runGate(t, gate, tc.header)
			// Always 401, never 403, and no detail about the cause.
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(u *model.User) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if u != nil {
			c.Set(PrincipalKey, *u)
		}
		_ = RequirePermission(auth.OpUserAdmin)(ok)(c)
		return rec.Code
	}

	admin := model.User{ID: 1, Role: model.RoleAdmin, IsActive: true}
	prof := model.User{ID: 2, Role: model.RoleProfessor, IsActive: true}
	student := model.User{ID: 3, Role: model.RoleStudent, IsActive: true}

	assert.Equal(t, http.StatusOK, run(&admin))
	assert.Equal(t, http.StatusForbidden, run(&prof))
	assert.Equal(t, http.StatusForbidden, run(&student))
	assert.Equal(t, http.StatusUnauthorized, run(nil))
}
