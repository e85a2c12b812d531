package model

import "time"

// Lesson represents a row in the `lessons` table. Lessons are ordered within
// their course; the (course_id, order) pair is unique and the repository
// auto-assigns max+1 when no order is supplied.
//
// Fields:
//  ID          – primary key identifier.
//  CourseID    – owning course.
//  CourseTitle – denormalized title of the owning course (join, not a column).
//  Title       – lesson title (at least 3 characters).
//  ShortDesc   – brief description shown in course listings.
//  FullText    – complete lesson content.
//  Order       – position of the lesson within the course (1-based).
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Lesson struct {
	ID          uint64    // lessons.id
	CourseID    uint64    // lessons.course_id
	CourseTitle string    // courses.title (joined, filled by List)
	Title       string    // lessons.title
	ShortDesc   string    // lessons.short_description
	FullText    string    // lessons.full_text
	Order       uint32    // lessons.lesson_order
	CreatedAt   time.Time // lessons.created_at
	UpdatedAt   time.Time // lessons.updated_at
}
