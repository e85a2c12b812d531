package model

import "time"

// Course represents a row in the `courses` table. A course belongs to the
// user who created it; ownership drives the update/delete permission checks
// in the handlers.
//
// Fields:
//  ID           – primary key identifier.
//  Title        – course title (at least 3 characters).
//  Description  – free-form course description.
//  CreatedBy    – id of the creating user.
//  CreatorName  – denormalized full name of the creator (join, not a column).
//  LessonsCount – number of lessons in the course (aggregate, not a column).
//  IsActive     – inactive courses are hidden from students.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Course struct {
	ID           uint64    // courses.id
	Title        string    // courses.title
	Description  string    // courses.description
	CreatedBy    uint64    // courses.created_by
	CreatorName  string    // users.first_name + users.last_name (joined)
	LessonsCount int       // COUNT(lessons) per course
	IsActive     bool      // courses.is_active
	CreatedAt    time.Time // courses.created_at
	UpdatedAt    time.Time // courses.updated_at
}
