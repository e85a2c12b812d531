package model

import "time"

// Event types and priority levels are closed sets stored as strings in the
// `events` table, mirroring the values accepted by the API.
const (
	EventMeeting    = "meeting"
	EventLecture    = "lecture"
	EventExam       = "exam"
	EventAssignment = "assignment"
	EventDeadline   = "deadline"
	EventOther      = "other"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidEventType reports whether s is a known event type.
func ValidEventType(s string) bool {
	switch s {
	case EventMeeting, EventLecture, EventExam, EventAssignment, EventDeadline, EventOther:
		return true
	}
	return false
}

// ValidPriority reports whether s is a known priority level.
func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Event represents a row in the `events` table (schedule entries such as
// lectures, exams and deadlines).
//
// Fields:
//  ID           – primary key identifier.
//  Title        – event title.
//  Description  – optional description.
//  CreatorID    – id of the creating user.
//  CreatorName  – denormalized full name of the creator (join, not a column).
//  CreatorEmail – denormalized email of the creator (join, not a column).
//  AssignedDate – calendar date of the event (time component unused).
//  StartTime    – optional start time formatted HH:MM.
//  EndTime      – optional end time formatted HH:MM.
//  EventType    – one of the Event* constants.
//  Priority     – one of the Priority* constants.
//  Location     – optional location.
//  IsAllDay     – all-day flag.
//  IsRecurring  – recurring flag.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Event struct {
	ID           uint64    // events.id
	Title        string    // events.title
	Description  string    // events.description (may be empty)
	CreatorID    uint64    // events.creator_id
	CreatorName  string    // users.first_name + users.last_name (joined)
	CreatorEmail string    // users.email (joined)
	AssignedDate time.Time // events.assigned_date
	StartTime    string    // events.start_time (HH:MM, may be empty)
	EndTime      string    // events.end_time (HH:MM, may be empty)
	EventType    string    // events.event_type
	Priority     string    // events.priority
	Location     string    // events.location (may be empty)
	IsAllDay     bool      // events.is_all_day
	IsRecurring  bool      // events.is_recurring
	CreatedAt    time.Time // events.created_at
	UpdatedAt    time.Time // events.updated_at
}
