package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/auth"
	"github.com/iliyamo/university-admin/internal/config"
	"github.com/iliyamo/university-admin/internal/model"
	"github.com/iliyamo/university-admin/internal/queue"
	"github.com/iliyamo/university-admin/internal/repository"
	"github.com/iliyamo/university-admin/internal/service"
	"github.com/iliyamo/university-admin/internal/utils"
)

// AuthHandler bundles dependencies for the authentication endpoints. Both
// access and refresh tokens are stateless JWTs; logout therefore has nothing
// to invalidate server-side and only acknowledges the client discarding its
// tokens.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Issuer   *auth.Issuer
	Verifier *auth.Verifier
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, issuer *auth.Issuer, verifier *auth.Verifier) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Issuer: issuer, Verifier: verifier}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type authResp struct {
	User    userSummary `json:"user"`
	Access  auth.Token  `json:"access"`
	Refresh auth.Token  `json:"refresh"`
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

// issuePair mints an access/refresh pair for u.
func (h *AuthHandler) issuePair(u model.User) (auth.Token, auth.Token, error) {
	access, err := h.Issuer.Access(u)
	if err != nil {
		return auth.Token{}, auth.Token{}, err
	}
	refresh, err := h.Issuer.Refresh(u)
	if err != nil {
		return auth.Token{}, auth.Token{}, err
	}
	return access, refresh, nil
}

// Register creates a student account and returns tokens immediately.
// Self-registration never grants an elevated role; admins create staff
// accounts through the user administration endpoints.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	switch {
	case req.Email == "" || req.Password == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	case !validEmail(req.Email):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	case len(req.Password) < utils.MinPasswordLength:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
	case req.FirstName == "" || req.LastName == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/last_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u := model.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.RoleStudent,
		IsActive:  true,
	}
	if err := h.Users.Create(ctx, &u, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, refresh, err := h.issuePair(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{Action: "user.registered", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role})

	return c.JSON(http.StatusCreated, authResp{User: summarize(u), Access: access, Refresh: refresh})
}

// Login verifies credentials and returns a new token pair. Bad credentials
// and a deactivated account produce the same 401 so the endpoint cannot be
// used to probe account state.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) || !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, refresh, err := h.issuePair(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{Action: "user.login", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role})

	return c.JSON(http.StatusOK, authResp{User: summarize(u), Access: access, Refresh: refresh})
}

// Refresh exchanges a refresh token for a new access token. The new token
// reflects the user's current role, so promotions and demotions take effect
// here even before older access tokens expire.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	access, err := h.Verifier.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		// Expired, malformed, wrong type, deleted or deactivated: one answer.
		c.Logger().Debugf("refresh rejected: %v", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	return c.JSON(http.StatusOK, echo.Map{"access": access})
}

// Logout acknowledges a client-side logout. Tokens are stateless and there
// is no server-side session or denylist, so the client discarding its pair
// is the whole operation.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the authenticated user's own record.
func (h *AuthHandler) Profile(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": summarize(u)})
}

// ChangePassword lets the authenticated user rotate their own password after
// re-proving the current one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password/new_password required"})
	}
	if len(req.NewPassword) < utils.MinPasswordLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, u.ID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{Action: "user.password_changed", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "password updated"})
}
