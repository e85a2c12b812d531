package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/auth"
	"github.com/iliyamo/university-admin/internal/model"
	"github.com/iliyamo/university-admin/internal/queue"
	"github.com/iliyamo/university-admin/internal/repository"
	"github.com/iliyamo/university-admin/internal/service"
)

// CourseHandler implements course CRUD. Creation is staff-only; mutation is
// admin-or-owner; students only ever see active courses.
type CourseHandler struct {
	Courses *repository.CourseRepo
	Lessons *repository.LessonRepo
}

func NewCourseHandler(courses *repository.CourseRepo, lessons *repository.LessonRepo) *CourseHandler {
	return &CourseHandler{Courses: courses, Lessons: lessons}
}

type courseWriteReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type courseResp struct {
	ID           uint64 `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CreatedBy    uint64 `json:"created_by"`
	CreatorName  string `json:"created_by_name"`
	LessonsCount int    `json:"lessons_count"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func courseJSON(co model.Course) courseResp {
	return courseResp{
		ID:           co.ID,
		Title:        co.Title,
		Description:  co.Description,
		CreatedBy:    co.CreatedBy,
		CreatorName:  co.CreatorName,
		LessonsCount: co.LessonsCount,
		IsActive:     co.IsActive,
		CreatedAt:    co.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    co.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List handles GET /v1/courses. Staff may filter on is_active; everyone else
// is restricted to active courses.
func (h *CourseHandler) List(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	filter := repository.CourseFilter{ActiveOnly: !auth.Can(u, auth.OpViewInactive)}
	if v := c.QueryParam("is_active"); v != "" {
		active := strings.EqualFold(v, "true")
		filter.IsActive = &active
	}
	filter.Page, filter.PerPage = pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	courses, total, err := h.Courses.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]courseResp, 0, len(courses))
	for _, co := range courses {
		out = append(out, courseJSON(co))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"courses":    out,
		"pagination": paginate(filter.Page, filter.PerPage, total),
	})
}

// Get handles GET /v1/courses/:id and includes the course's lessons. An
// inactive course is reported as not found to students rather than
// forbidden, so its existence is not revealed.
func (h *CourseHandler) Get(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	co, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !co.IsActive && !auth.Can(u, auth.OpViewInactive) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	}

	lessons, err := h.Lessons.ListByCourse(ctx, co.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	lout := make([]lessonResp, 0, len(lessons))
	for _, l := range lessons {
		lout = append(lout, lessonJSON(l))
	}

	resp := courseJSON(co)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "course": resp, "lessons": lout})
}

// Create handles POST /v1/courses.
func (h *CourseHandler) Create(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	if !auth.Can(u, auth.OpCourseCreate) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admin and professor users can create courses"})
	}
	var req courseWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) < 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must be at least 3 characters"})
	}
	if strings.TrimSpace(req.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is required"})
	}

	co := model.Course{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   u.ID,
		CreatorName: u.FirstName + " " + u.LastName,
		IsActive:    true,
	}
	if req.IsActive != nil {
		co.IsActive = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Courses.Create(ctx, &co); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create course failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "course.created", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role,
		TargetType: "course", TargetID: co.ID, Detail: co.Title,
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "course": courseJSON(co)})
}

// Update handles PUT /v1/courses/:id. Admins may update any course, other
// staff only their own.
func (h *CourseHandler) Update(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	co, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.CanOwn(u, auth.OpCourseUpdate, co.CreatedBy) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	var req courseWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title != "" {
		req.Title = strings.TrimSpace(req.Title)
		if len(req.Title) < 3 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must be at least 3 characters"})
		}
		co.Title = req.Title
	}
	if strings.TrimSpace(req.Description) != "" {
		co.Description = req.Description
	}
	if req.IsActive != nil {
		co.IsActive = *req.IsActive
	}

	if err := h.Courses.Update(ctx, co); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "course.updated", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role,
		TargetType: "course", TargetID: co.ID, Detail: co.Title,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "course": courseJSON(co)})
}

// Delete handles DELETE /v1/courses/:id; lessons cascade with the course.
func (h *CourseHandler) Delete(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	co, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.CanOwn(u, auth.OpCourseDelete, co.CreatedBy) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	if err := h.Courses.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "course.deleted", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role,
		TargetType: "course", TargetID: id, Detail: co.Title,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "course deleted"})
}
