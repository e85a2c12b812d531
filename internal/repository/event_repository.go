package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/university-admin/internal/model"
)

type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventSelect = `SELECT e.id, e.title, COALESCE(e.description,''), e.creator_id,
	CONCAT(u.first_name, ' ', u.last_name), u.email,
	e.assigned_date, COALESCE(e.start_time,''), COALESCE(e.end_time,''),
	e.event_type, e.priority, COALESCE(e.location,''), e.is_all_day, e.is_recurring,
	e.created_at, e.updated_at
	FROM events e JOIN users u ON u.id = e.creator_id`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.CreatorID,
		&e.CreatorName, &e.CreatorEmail, &e.AssignedDate, &e.StartTime, &e.EndTime,
		&e.EventType, &e.Priority, &e.Location, &e.IsAllDay, &e.IsRecurring,
		&e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Create inserts the event and fills in its ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO events (title, description, creator_id, assigned_date, start_time, end_time,
			event_type, priority, location, is_all_day, is_recurring)
		VALUES (?,NULLIF(?,''),?,?,NULLIF(?,''),NULLIF(?,''),?,?,NULLIF(?,''),?,?)`,
		e.Title, e.Description, e.CreatorID, e.AssignedDate, e.StartTime, e.EndTime,
		e.EventType, e.Priority, e.Location, e.IsAllDay, e.IsRecurring)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID fetches an event with its creator details.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	return scanEvent(r.DB.QueryRowContext(ctx, eventSelect+" WHERE e.id=? LIMIT 1", id))
}

// EventFilter narrows List results. Zero values mean "no filter".
type EventFilter struct {
	Year      int
	Month     int
	EventType string
	Priority  string
	Search    string // matches title, description or location
	Page      int
	PerPage   int
}

// List returns a page of events ordered by date and start time, plus the
// total row count for the filter.
func (r *EventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Year > 0 {
		where = append(where, "YEAR(e.assigned_date)=?")
		args = append(args, f.Year)
	}
	if f.Month > 0 {
		where = append(where, "MONTH(e.assigned_date)=?")
		args = append(args, f.Month)
	}
	if f.EventType != "" {
		where = append(where, "e.event_type=?")
		args = append(args, f.EventType)
	}
	if f.Priority != "" {
		where = append(where, "e.priority=?")
		args = append(args, f.Priority)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		where = append(where, "(e.title LIKE ? OR e.description LIKE ? OR e.location LIKE ?)")
		args = append(args, like, like, like)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events e WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, per := normalizePage(f.Page, f.PerPage)
	rows, err := r.DB.QueryContext(ctx,
		eventSelect+" WHERE "+cond+" ORDER BY e.assigned_date, e.start_time LIMIT ? OFFSET ?",
		append(args, per, (page-1)*per)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// ListByDate returns every event on the given calendar day ordered by start
// time. Day views are small, so no pagination.
func (r *EventRepo) ListByDate(ctx context.Context, day time.Time) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		eventSelect+" WHERE e.assigned_date=? ORDER BY e.start_time",
		day.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update writes all mutable event fields.
func (r *EventRepo) Update(ctx context.Context, e model.Event) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE events SET title=?, description=NULLIF(?,''), assigned_date=?,
			start_time=NULLIF(?,''), end_time=NULLIF(?,''), event_type=?, priority=?,
			location=NULLIF(?,''), is_all_day=?, is_recurring=? WHERE id=?`,
		e.Title, e.Description, e.AssignedDate, e.StartTime, e.EndTime,
		e.EventType, e.Priority, e.Location, e.IsAllDay, e.IsRecurring, e.ID)
	return err
}

// Delete removes the event row.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
