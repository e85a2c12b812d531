package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/university-admin/internal/model"
)

type CourseRepo struct{ DB *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{DB: db} }

const courseSelect = `SELECT c.id, c.title, c.description, c.created_by,
	CONCAT(u.first_name, ' ', u.last_name),
	(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id),
	c.is_active, c.created_at, c.updated_at
	FROM courses c JOIN users u ON u.id = c.created_by`

func scanCourse(row interface{ Scan(...any) error }) (model.Course, error) {
	var c model.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedBy,
		&c.CreatorName, &c.LessonsCount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts the course and fills in its ID.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO courses (title, description, created_by, is_active) VALUES (?,?,?,?)",
		c.Title, c.Description, c.CreatedBy, c.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a course with its creator name and lesson count.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (model.Course, error) {
	return scanCourse(r.DB.QueryRowContext(ctx, courseSelect+" WHERE c.id=? LIMIT 1", id))
}

// CourseFilter narrows List results. IsActive filters on the flag when set;
// ActiveOnly additionally hides inactive courses regardless of IsActive and
// is applied for non-staff callers.
type CourseFilter struct {
	IsActive   *bool
	ActiveOnly bool
	Page       int
	PerPage    int
}

// List returns a page of courses, newest first, plus the total row count.
func (r *CourseRepo) List(ctx context.Context, f CourseFilter) ([]model.Course, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.IsActive != nil {
		where = append(where, "c.is_active=?")
		args = append(args, *f.IsActive)
	}
	if f.ActiveOnly {
		where = append(where, "c.is_active=TRUE")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM courses c WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, per := normalizePage(f.Page, f.PerPage)
	rows, err := r.DB.QueryContext(ctx,
		courseSelect+" WHERE "+cond+" ORDER BY c.created_at DESC LIMIT ? OFFSET ?",
		append(args, per, (page-1)*per)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// Update writes title, description and active flag.
func (r *CourseRepo) Update(ctx context.Context, c model.Course) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE courses SET title=?, description=?, is_active=? WHERE id=?",
		c.Title, c.Description, c.IsActive, c.ID)
	return err
}

// Delete removes the course; its lessons cascade in the schema.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM courses WHERE id=?", id)
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
