package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/auth"
	"github.com/iliyamo/university-admin/internal/model"
	"github.com/iliyamo/university-admin/internal/queue"
	"github.com/iliyamo/university-admin/internal/repository"
	"github.com/iliyamo/university-admin/internal/service"
)

// EventHandler implements the schedule calendar. All authenticated users can
// read events; creating and mutating them is reserved for admin and professor
// roles without an ownership override.
type EventHandler struct {
	Events *repository.EventRepo
}

func NewEventHandler(events *repository.EventRepo) *EventHandler {
	return &EventHandler{Events: events}
}

type eventWriteReq struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	AssignedDate string `json:"assigned_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	EventType    string `json:"event_type"`
	Priority     string `json:"priority"`
	Location     string `json:"location"`
	IsAllDay     *bool  `json:"is_all_day"`
	IsRecurring  *bool  `json:"is_recurring"`
}

type eventResp struct {
	ID           uint64 `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CreatorID    uint64 `json:"creator_id"`
	CreatorName  string `json:"creator_name"`
	CreatorEmail string `json:"creator_email"`
	AssignedDate string `json:"assigned_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	EventType    string `json:"event_type"`
	Priority     string `json:"priority"`
	Location     string `json:"location"`
	IsAllDay     bool   `json:"is_all_day"`
	IsRecurring  bool   `json:"is_recurring"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func eventJSON(e model.Event) eventResp {
	return eventResp{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		CreatorID:    e.CreatorID,
		CreatorName:  e.CreatorName,
		CreatorEmail: e.CreatorEmail,
		AssignedDate: e.AssignedDate.Format("2006-01-02"),
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		EventType:    e.EventType,
		Priority:     e.Priority,
		Location:     e.Location,
		IsAllDay:     e.IsAllDay,
		IsRecurring:  e.IsRecurring,
		CreatedAt:    e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    e.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// validate checks a write payload. For create all fields are required; for
// update empty values mean "leave unchanged" and only non-empty values are
// validated and applied.
func (r *eventWriteReq) apply(e *model.Event, create bool) (string, bool) {
	r.Title = strings.TrimSpace(r.Title)
	if create && len(r.Title) < 3 {
		return "title must be at least 3 characters", false
	}
	if r.Title != "" {
		if len(r.Title) < 3 {
			return "title must be at least 3 characters", false
		}
		e.Title = r.Title
	}
	if r.Description != "" {
		e.Description = r.Description
	}
	if create && r.AssignedDate == "" {
		return "assigned_date is required", false
	}
	if r.AssignedDate != "" {
		d, err := time.Parse("2006-01-02", r.AssignedDate)
		if err != nil {
			return "assigned_date must be YYYY-MM-DD", false
		}
		e.AssignedDate = d
	}
	if create && (r.StartTime == "" || r.EndTime == "") && (r.IsAllDay == nil || !*r.IsAllDay) {
		return "start_time and end_time are required", false
	}
	if r.StartTime != "" {
		if _, err := time.Parse("15:04", r.StartTime); err != nil {
			return "start_time must be HH:MM", false
		}
		e.StartTime = r.StartTime
	}
	if r.EndTime != "" {
		if _, err := time.Parse("15:04", r.EndTime); err != nil {
			return "end_time must be HH:MM", false
		}
		e.EndTime = r.EndTime
	}
	if e.StartTime != "" && e.EndTime != "" && e.EndTime <= e.StartTime {
		return "end_time must be after start_time", false
	}
	if create && r.EventType == "" {
		r.EventType = model.EventOther
	}
	if r.EventType != "" {
		if !model.ValidEventType(r.EventType) {
			return "invalid event_type", false
		}
		e.EventType = r.EventType
	}
	if create && r.Priority == "" {
		r.Priority = model.PriorityMedium
	}
	if r.Priority != "" {
		if !model.ValidPriority(r.Priority) {
			return "invalid priority", false
		}
		e.Priority = r.Priority
	}
	if r.Location != "" {
		e.Location = r.Location
	}
	if r.IsAllDay != nil {
		e.IsAllDay = *r.IsAllDay
	}
	if r.IsRecurring != nil {
		e.IsRecurring = *r.IsRecurring
	}
	return "", true
}

// List handles GET /v1/events with optional year, month, event_type,
// priority and search filters.
func (h *EventHandler) List(c echo.Context) error {
	if _, err := principal(c); err != nil {
		return err
	}

	f := repository.EventFilter{Search: strings.TrimSpace(c.QueryParam("search"))}
	f.Page, f.PerPage = pageParams(c)

	if v := c.QueryParam("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 2200 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
		}
		f.Year = y
	}
	if v := c.QueryParam("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month"})
		}
		f.Month = m
	}
	if v := c.QueryParam("event_type"); v != "" {
		if !model.ValidEventType(v) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_type"})
		}
		f.EventType = v
	}
	if v := c.QueryParam("priority"); v != "" {
		if !model.ValidPriority(v) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid priority"})
		}
		f.Priority = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, total, err := h.Events.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]eventResp, 0, len(events))
	for _, e := range events {
		out = append(out, eventJSON(e))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"events":     out,
		"pagination": paginate(f.Page, f.PerPage, total),
	})
}

// dateFromParams parses the /events/date/:year/:month/:day path segments
// into a calendar day. Impossible dates (February 30) are rejected rather
// than normalized.
func dateFromParams(year, month, day string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if y < 1970 || y > 2200 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

// ListByDate handles GET /v1/events/date/:year/:month/:day, the calendar day
// view. Day views are small, so the response is not paginated.
func (h *EventHandler) ListByDate(c echo.Context) error {
	if _, err := principal(c); err != nil {
		return err
	}
	day, ok := dateFromParams(c.Param("year"), c.Param("month"), c.Param("day"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Events.ListByDate(ctx, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]eventResp, 0, len(events))
	for _, e := range events {
		out = append(out, eventJSON(e))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"events":  out,
		"date":    day.Format("2006-01-02"),
	})
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	if _, err := principal(c); err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "event": eventJSON(e)})
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	if !auth.Can(u, auth.OpEventCreate) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admin and professor users can create events"})
	}

	var req eventWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	e := model.Event{CreatorID: u.ID}
	if msg, ok := req.apply(&e, true); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Events.Create(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	e.CreatorName = u.FullName()
	e.CreatorEmail = u.Email

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "event.created", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role,
		TargetType: "event", TargetID: e.ID, Detail: e.Title,
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "event": eventJSON(e)})
}

// Update handles PUT /v1/events/:id. Any admin or professor can edit any
// event, authorship is not required.
func (h *EventHandler) Update(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if !auth.Can(u, auth.OpEventUpdate) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var req eventWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg, ok := req.apply(&e, false); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	if err := h.Events.Update(ctx, e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "event.updated", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role,
		TargetType: "event", TargetID: e.ID, Detail: e.Title,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "event": eventJSON(e)})
}

// Delete handles DELETE /v1/events/:id.
func (h *EventHandler) Delete(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if !auth.Can(u, auth.OpEventDelete) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Events.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action: "event.deleted", ActorID: u.ID, ActorEmail: u.Email, ActorRole: u.Role,
		TargetType: "event", TargetID: id, Detail: e.Title,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "event deleted"})
}
