package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/university-admin/internal/model"
)

func TestCan(t *testing.T) {
	admin := model.User{ID: 1, Role: model.RoleAdmin}
	prof := model.User{ID: 2, Role: model.RoleProfessor}
	student := model.User{ID: 3, Role: model.RoleStudent}

	tests := []struct {
		name string
		user model.User
		op   Operation
		want bool
	}{
		{"admin creates course", admin, OpCourseCreate, true},
		{"professor creates course", prof, OpCourseCreate, true},
		{"student creates course", student, OpCourseCreate, false},
		{"professor creates event", prof, OpEventCreate, true},
		{"student updates event", student, OpEventUpdate, false},
		{"professor administers users", prof, OpUserAdmin, false},
		{"admin administers users", admin, OpUserAdmin, true},
		{"student views inactive courses", student, OpViewInactive, false},
		{"professor views inactive courses", prof, OpViewInactive, true},
		{"unknown operation denied", admin, Operation("bogus.op"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Can(tc.user, tc.op))
		})
	}
}

func TestCanOwn(t *testing.T) {
	admin := model.User{ID: 1, Role: model.RoleAdmin}
	owner := model.User{ID: 2, Role: model.RoleProfessor}
	other := model.User{ID: 3, Role: model.RoleProfessor}
	student := model.User{ID: 4, Role: model.RoleStudent}

	const courseOwner = uint64(2)

	// Admin may mutate any course; a professor only their own.
	assert.True(t, CanOwn(admin, OpCourseUpdate, courseOwner))
	assert.True(t, CanOwn(owner, OpCourseUpdate, courseOwner))
	assert.False(t, CanOwn(other, OpCourseUpdate, courseOwner))
	assert.False(t, CanOwn(student, OpCourseUpdate, courseOwner))

	assert.True(t, CanOwn(owner, OpLessonDelete, courseOwner))
	assert.False(t, CanOwn(other, OpLessonDelete, courseOwner))

	// Event mutation has no owner override; the role set already covers all
	// staff, and students never pass.
	assert.True(t, CanOwn(other, OpEventUpdate, courseOwner))
	assert.False(t, CanOwn(student, OpEventUpdate, student.ID))
}
