package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-admin/internal/model"
)

func TestEventWriteReqApplyCreate(t *testing.T) {
	req := eventWriteReq{
		Title:        "Final exam",
		AssignedDate: "2026-01-15",
		StartTime:    "09:00",
		EndTime:      "11:00",
		EventType:    model.EventExam,
		Priority:     model.PriorityHigh,
		Location:     "Hall B",
	}
	var e model.Event
	msg, ok := req.apply(&e, true)
	require.True(t, ok, msg)

	assert.Equal(t, "Final exam", e.Title)
	assert.Equal(t, "2026-01-15", e.AssignedDate.Format("2006-01-02"))
	assert.Equal(t, "09:00", e.StartTime)
	assert.Equal(t, model.EventExam, e.EventType)
	assert.Equal(t, model.PriorityHigh, e.Priority)
}

func TestEventWriteReqApplyDefaults(t *testing.T) {
	// Type and priority fall back to sane defaults when not given.
	req := eventWriteReq{
		Title:        "Office hours",
		AssignedDate: "2026-02-01",
		StartTime:    "14:00",
		EndTime:      "15:00",
	}
	var e model.Event
	_, ok := req.apply(&e, true)
	require.True(t, ok)
	assert.Equal(t, model.EventOther, e.EventType)
	assert.Equal(t, model.PriorityMedium, e.Priority)
}

func TestEventWriteReqApplyRejects(t *testing.T) {
	tests := []struct {
		name string
		req  eventWriteReq
	}{
		{"short title", eventWriteReq{Title: "ab", AssignedDate: "2026-01-15", StartTime: "09:00", EndTime: "10:00"}},
		{"bad date", eventWriteReq{Title: "Lecture", AssignedDate: "15-01-2026", StartTime: "09:00", EndTime: "10:00"}},
		{"bad start time", eventWriteReq{Title: "Lecture", AssignedDate: "2026-01-15", StartTime: "9am", EndTime: "10:00"}},
		{"end before start", eventWriteReq{Title: "Lecture", AssignedDate: "2026-01-15", StartTime: "10:00", EndTime: "09:00"}},
		{"missing times not all-day", eventWriteReq{Title: "Lecture", AssignedDate: "2026-01-15"}},
		{"unknown type", eventWriteReq{Title: "Lecture", AssignedDate: "2026-01-15", StartTime: "09:00", EndTime: "10:00", EventType: "party"}},
		{"unknown priority", eventWriteReq{Title: "Lecture", AssignedDate: "2026-01-15", StartTime: "09:00", EndTime: "10:00", Priority: "asap"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var e model.Event
			msg, ok := tc.req.apply(&e, true)
			assert.False(t, ok)
			assert.NotEmpty(t, msg)
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestEventWriteReqApplyAllDay(t *testing.T) {
	// All-day events do not need start and end times.
	req := eventWriteReq{Title: "Semester break", AssignedDate: "2026-03-01", IsAllDay: boolPtr(true)}
	var e model.Event
	_, ok := req.apply(&e, true)
	require.True(t, ok)
	assert.True(t, e.IsAllDay)
	assert.Empty(t, e.StartTime)
}

// A partial update that only touches the title must leave the all-day and
// recurring flags exactly as stored.
func TestEventWriteReqApplyPartialKeepsFlags(t *testing.T) {
	e := model.Event{
		Title:       "Graduation",
		IsAllDay:    true,
		IsRecurring: true,
	}
	req := eventWriteReq{Title: "Graduation ceremony"}
	msg, ok := req.apply(&e, false)
	require.True(t, ok, msg)

	assert.Equal(t, "Graduation ceremony", e.Title)
	assert.True(t, e.IsAllDay)
	assert.True(t, e.IsRecurring)

	// An explicit false clears them.
	clear := eventWriteReq{IsAllDay: boolPtr(false), IsRecurring: boolPtr(false)}
	_, ok = clear.apply(&e, false)
	require.True(t, ok)
	assert.False(t, e.IsAllDay)
	assert.False(t, e.IsRecurring)
}

func TestDateFromParams(t *testing.T) {
	day, ok := dateFromParams("2026", "2", "28")
	require.True(t, ok)
	assert.Equal(t, "2026-02-28", day.Format("2006-01-02"))

	invalid := [][3]string{
		{"2026", "2", "30"},  // impossible date
		{"2026", "13", "1"},  // month out of range
		{"2026", "0", "10"},  // zero month
		{"abcd", "1", "1"},   // non-numeric year
		{"2026", "1", "x"},   // non-numeric day
		{"1800", "1", "1"},   // year out of range
	}
	for _, tc := range invalid {
		_, ok := dateFromParams(tc[0], tc[1], tc[2])
		assert.False(t, ok, "%v should be rejected", tc)
	}
}

func TestPaginate(t *testing.T) {
	p := paginate(2, 20, 45)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 45, p.TotalCount)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrevious)

	empty := paginate(1, 20, 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrevious)
}
