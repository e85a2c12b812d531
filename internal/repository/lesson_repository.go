package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/university-admin/internal/model"
)

type LessonRepo struct{ DB *sql.DB }

func NewLessonRepo(db *sql.DB) *LessonRepo { return &LessonRepo{DB: db} }

const lessonColumns = "id, course_id, title, short_description, full_text, lesson_order, created_at, updated_at"

func scanLesson(row interface{ Scan(...any) error }) (model.Lesson, error) {
	var l model.Lesson
	err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.ShortDesc, &l.FullText,
		&l.Order, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// Create inserts the lesson and fills in its ID. When Order is zero the next
// free position in the course (max+1) is assigned.
func (r *LessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	if l.Order == 0 {
		var max sql.NullInt64
		if err := r.DB.QueryRowContext(ctx,
			"SELECT MAX(lesson_order) FROM lessons WHERE course_id=?", l.CourseID).Scan(&max); err != nil {
			return err
		}
		l.Order = uint32(max.Int64) + 1
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO lessons (course_id, title, short_description, full_text, lesson_order) VALUES (?,?,?,?,?)",
		l.CourseID, l.Title, l.ShortDesc, l.FullText, l.Order)
	if err != nil {
		if isDuplicate(err) {
			return ErrOrderTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID fetches a single lesson.
func (r *LessonRepo) GetByID(ctx context.Context, id uint64) (model.Lesson, error) {
	return scanLesson(r.DB.QueryRowContext(ctx,
		"SELECT "+lessonColumns+" FROM lessons WHERE id=? LIMIT 1", id))
}

// ListByCourse returns all lessons of a course in order.
func (r *LessonRepo) ListByCourse(ctx context.Context, courseID uint64) ([]model.Lesson, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+lessonColumns+" FROM lessons WHERE course_id=? ORDER BY lesson_order", courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// LessonFilter narrows List results. CourseID restricts to one course when
// non-zero; ActiveOnly hides lessons of inactive courses and is applied for
// non-staff callers.
type LessonFilter struct {
	CourseID   uint64
	ActiveOnly bool
	Page       int
	PerPage    int
}

// List returns a page of lessons ordered by course then position, with the
// owning course title joined in, plus the total row count.
func (r *LessonRepo) List(ctx context.Context, f LessonFilter) ([]model.Lesson, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.CourseID > 0 {
		where = append(where, "l.course_id=?")
		args = append(args, f.CourseID)
	}
	if f.ActiveOnly {
		where = append(where, "c.is_active=TRUE")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM lessons l JOIN courses c ON c.id=l.course_id WHERE "+cond,
		args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, per := normalizePage(f.Page, f.PerPage)
	args = append(args, per, (page-1)*per)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT l.id, l.course_id, c.title, l.title, l.short_description, l.full_text,
		l.lesson_order, l.created_at, l.updated_at
		FROM lessons l JOIN courses c ON c.id=l.course_id
		WHERE `+cond+" ORDER BY l.course_id, l.lesson_order LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.CourseTitle, &l.Title, &l.ShortDesc,
			&l.FullText, &l.Order, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

// Update writes title, descriptions and order.
func (r *LessonRepo) Update(ctx context.Context, l model.Lesson) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE lessons SET title=?, short_description=?, full_text=?, lesson_order=? WHERE id=?",
		l.Title, l.ShortDesc, l.FullText, l.Order, l.ID)
	if isDuplicate(err) {
		return ErrOrderTaken
	}
	return err
}

// Delete removes the lesson row.
func (r *LessonRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM lessons WHERE id=?", id)
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
