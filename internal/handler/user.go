package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/config"
	"github.com/iliyamo/university-admin/internal/model"
	"github.com/iliyamo/university-admin/internal/queue"
	"github.com/iliyamo/university-admin/internal/repository"
	"github.com/iliyamo/university-admin/internal/service"
	"github.com/iliyamo/university-admin/internal/utils"
)

// UserHandler implements the admin-only user administration endpoints. The
// whole route group sits behind RequirePermission(auth.OpUserAdmin), so the
// handlers assume an admin principal.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

type userWriteReq struct {
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"` // create only
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FatherName  string `json:"father_name"`
	Role        string `json:"role"`
	Phone       string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	IsActive    *bool  `json:"is_active"`
}

// apply validates the request and copies it onto u. Create requires all
// identity fields; update keeps existing values for omitted ones.
func (req *userWriteReq) apply(u *model.User, create bool) (string, bool) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if create || req.Email != "" {
		if !validEmail(req.Email) {
			return "invalid email", false
		}
		u.Email = req.Email
	}
	if create || req.FirstName != "" {
		if strings.TrimSpace(req.FirstName) == "" {
			return "first_name required", false
		}
		u.FirstName = strings.TrimSpace(req.FirstName)
	}
	if create || req.LastName != "" {
		if strings.TrimSpace(req.LastName) == "" {
			return "last_name required", false
		}
		u.LastName = strings.TrimSpace(req.LastName)
	}
	if req.FatherName != "" {
		u.FatherName = strings.TrimSpace(req.FatherName)
	}
	if create || req.Role != "" {
		if !model.ValidRole(req.Role) {
			return "invalid role", false
		}
		u.Role = req.Role
	}
	if req.Phone != "" {
		u.Phone = strings.TrimSpace(req.Phone)
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return "invalid date_of_birth, use YYYY-MM-DD", false
		}
		u.DateOfBirth = &dob
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	} else if create {
		u.IsActive = true
	}
	return "", true
}

// List handles GET /v1/users with role filter, name/email search and
// pagination.
func (h *UserHandler) List(c echo.Context) error {
	role := c.QueryParam("role")
	if role != "" && !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	page, per := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, total, err := h.Users.List(ctx, repository.UserFilter{
		Role:    role,
		Search:  strings.TrimSpace(c.QueryParam("search")),
		Page:    page,
		PerPage: per,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summarize(u))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"users":      out,
		"pagination": paginate(page, per, total),
	})
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": summarize(u)})
}

// Create handles POST /v1/users. Unlike self-registration, an admin may
// assign any role.
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req userWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Password) < utils.MinPasswordLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
	}
	var u model.User
	if msg, ok := req.apply(&u, true); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Create(ctx, &u, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "user.created", ActorID: actor.ID, ActorEmail: actor.Email, ActorRole: actor.Role,
		TargetType: "user", TargetID: u.ID, Detail: "role=" + u.Role,
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": summarize(u)})
}

// Update handles PUT /v1/users/:id. Role and active-flag changes land here,
// which is why the group is admin-only.
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req userWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if msg, ok := req.apply(&u, false); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "user.updated", ActorID: actor.ID, ActorEmail: actor.Email, ActorRole: actor.Role,
		TargetType: "user", TargetID: u.ID, Detail: "role=" + u.Role,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": summarize(u)})
}

// Delete handles DELETE /v1/users/:id. Admins cannot delete themselves; this
// avoids locking the last administrator out.
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if id == actor.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete own account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "user.deleted", ActorID: actor.ID, ActorEmail: actor.Email, ActorRole: actor.Role,
		TargetType: "user", TargetID: id,
	})

	return c.NoContent(http.StatusNoContent)
}

// Roles handles GET /v1/users/roles and lists the closed role set.
func (h *UserHandler) Roles(c echo.Context) error {
	return c.JSON(http.StatusOK, []echo.Map{
		{"value": model.RoleAdmin, "label": "Admin"},
		{"value": model.RoleProfessor, "label": "Professor"},
		{"value": model.RoleStudent, "label": "Student"},
	})
}
