package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/auth"
	"github.com/iliyamo/university-admin/internal/model"
	"github.com/iliyamo/university-admin/internal/queue"
	"github.com/iliyamo/university-admin/internal/repository"
	"github.com/iliyamo/university-admin/internal/service"
)

// LessonHandler implements lesson CRUD. Lessons inherit their permissions
// from the owning course: creating one requires staff role plus course
// ownership (or admin), mutation is admin-or-course-owner, and visibility
// follows the course's active flag.
type LessonHandler struct {
	Courses *repository.CourseRepo
	Lessons *repository.LessonRepo
}

func NewLessonHandler(courses *repository.CourseRepo, lessons *repository.LessonRepo) *LessonHandler {
	return &LessonHandler{Courses: courses, Lessons: lessons}
}

type lessonWriteReq struct {
	Title     string `json:"title"`
	ShortDesc string `json:"short_description"`
	FullText  string `json:"full_text"`
	Order     uint32 `json:"order"`
}

type lessonResp struct {
	ID          uint64 `json:"id"`
	CourseID    uint64 `json:"course_id"`
	CourseTitle string `json:"course_title,omitempty"`
	Title       string `json:"title"`
	ShortDesc   string `json:"short_description"`
	FullText    string `json:"full_text"`
	Order       uint32 `json:"order"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func lessonJSON(l model.Lesson) lessonResp {
	return lessonResp{
		ID:          l.ID,
		CourseID:    l.CourseID,
		CourseTitle: l.CourseTitle,
		Title:       l.Title,
		ShortDesc:   l.ShortDesc,
		FullText:    l.FullText,
		Order:       l.Order,
		CreatedAt:   l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   l.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List handles GET /v1/lessons with an optional ?course= filter. Non-staff
// callers only see lessons belonging to active courses.
func (h *LessonHandler) List(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	f := repository.LessonFilter{ActiveOnly: !auth.Can(u, auth.OpViewInactive)}
	if v := c.QueryParam("course"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course"})
		}
		f.CourseID = id
	}
	f.Page, f.PerPage = pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	lessons, total, err := h.Lessons.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]lessonResp, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, lessonJSON(l))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"lessons":    out,
		"pagination": paginate(f.Page, f.PerPage, total),
	})
}

// loadCourse fetches the owning course for a lesson operation.
func (h *LessonHandler) loadCourse(ctx context.Context, c echo.Context, id uint64) (model.Course, bool) {
	co, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return model.Course{}, false
	}
	return co, true
}

// Create handles POST /v1/courses/:id/lessons.
func (h *LessonHandler) Create(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if !auth.Can(u, auth.OpLessonCreate) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admin and professor users can create lessons"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	co, ok := h.loadCourse(ctx, c, courseID)
	if !ok {
		return nil
	}
	// Professors may only add lessons to their own courses.
	if !auth.CanOwn(u, auth.OpCourseUpdate, co.CreatedBy) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	var req lessonWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) < 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must be at least 3 characters"})
	}
	if strings.TrimSpace(req.ShortDesc) == "" || strings.TrimSpace(req.FullText) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "short_description and full_text are required"})
	}

	l := model.Lesson{
		CourseID:  co.ID,
		Title:     req.Title,
		ShortDesc: req.ShortDesc,
		FullText:  req.FullText,
		Order:     req.Order,
	}
	if err := h.Lessons.Create(ctx, &l); err != nil {
		if errors.Is(err, repository.ErrOrderTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "lesson order already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lesson failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "lesson.created", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role,
		TargetType: "lesson", TargetID: l.ID, Detail: l.Title,
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "lesson": lessonJSON(l)})
}

// Get handles GET /v1/lessons/:id. Lessons of inactive courses are hidden
// from students the same way the course itself is.
func (h *LessonHandler) Get(c echo.Context) error {
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

	l, err := h.Lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	co, ok := h.loadCourse(ctx, c, l.CourseID)
	if !ok {
		return nil
	}
	if !co.IsActive && !auth.Can(u, auth.OpViewInactive) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "lesson": lessonJSON(l)})
}

// Update handles PUT /v1/lessons/:id.
func (h *LessonHandler) Update(c echo.Context) error {
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

	l, err := h.Lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	co, ok := h.loadCourse(ctx, c, l.CourseID)
	if !ok {
		return nil
	}
	if !auth.CanOwn(u, auth.OpLessonUpdate, co.CreatedBy) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	var req lessonWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title != "" {
		req.Title = strings.TrimSpace(req.Title)
		if len(req.Title) < 3 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must be at least 3 characters"})
		}
		l.Title = req.Title
	}
	if strings.TrimSpace(req.ShortDesc) != "" {
		l.ShortDesc = req.ShortDesc
	}
	if strings.TrimSpace(req.FullText) != "" {
		l.FullText = req.FullText
	}
	if req.Order > 0 {
		l.Order = req.Order
	}

	if err := h.Lessons.Update(ctx, l); err != nil {
		if errors.Is(err, repository.ErrOrderTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "lesson order already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "lesson.updated", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role,
		TargetType: "lesson", TargetID: l.ID, Detail: l.Title,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "lesson": lessonJSON(l)})
}

// Delete handles DELETE /v1/lessons/:id.
func (h *LessonHandler) Delete(c echo.Context) error {
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

	l, err := h.Lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	co, ok := h.loadCourse(ctx, c, l.CourseID)
	if !ok {
		return nil
	}
	if !auth.CanOwn(u, auth.OpLessonDelete, co.CreatedBy) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	if err := h.Lessons.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "lesson.deleted", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role,
		TargetType: "lesson", TargetID: id, Detail: l.Title,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "lesson deleted"})
}
