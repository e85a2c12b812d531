package auth

import "github.com/iliyamo/university-admin/internal/model"

// Operation names an API action subject to role authorization. Handlers
// consult the permission table through Can/CanOwn instead of hard-coding
// role comparisons, so the whole matrix lives in one place.
type Operation string

const (
	OpCourseCreate Operation = "course.create"
	OpCourseUpdate Operation = "course.update"
	OpCourseDelete Operation = "course.delete"
	OpLessonCreate Operation = "lesson.create"
	OpLessonUpdate Operation = "lesson.update"
	OpLessonDelete Operation = "lesson.delete"
	OpEventCreate  Operation = "event.create"
	OpEventUpdate  Operation = "event.update"
	OpEventDelete  Operation = "event.delete"
	OpUserAdmin    Operation = "user.admin"
	OpViewInactive Operation = "course.view_inactive"
)

// permission lists the roles allowed to perform an operation and whether the
// owner of the target resource may perform it regardless of role.
type permission struct {
	roles map[string]bool
	owner bool
}

func roleSet(roles ...string) map[string]bool {
	m := make(map[string]bool, len(roles))
	for _, r := range roles {
		m[r] = true
	}
	return m
}

// permissions is the static allow-list. Mutating courses and lessons is
// admin-or-owner (the owner being the course creator); creating them and any
// event mutation is staff-only.
var permissions = map[Operation]permission{
	OpCourseCreate: {roles: roleSet(model.RoleAdmin, model.RoleProfessor)},
	OpCourseUpdate: {roles: roleSet(model.RoleAdmin), owner: true},
	OpCourseDelete: {roles: roleSet(model.RoleAdmin), owner: true},
	OpLessonCreate: {roles: roleSet(model.RoleAdmin, model.RoleProfessor)},
	OpLessonUpdate: {roles: roleSet(model.RoleAdmin), owner: true},
	OpLessonDelete: {roles: roleSet(model.RoleAdmin), owner: true},
	OpEventCreate:  {roles: roleSet(model.RoleAdmin, model.RoleProfessor)},
	OpEventUpdate:  {roles: roleSet(model.RoleAdmin, model.RoleProfessor)},
	OpEventDelete:  {roles: roleSet(model.RoleAdmin, model.RoleProfessor)},
	OpUserAdmin:    {roles: roleSet(model.RoleAdmin)},
	OpViewInactive: {roles: roleSet(model.RoleAdmin, model.RoleProfessor)},
}

// Can reports whether u's role allows the operation. Unknown operations are
// denied.
func Can(u model.User, op Operation) bool {
	p, ok := permissions[op]
	if !ok {
		return false
	}
	return p.roles[u.Role]
}

// CanOwn reports whether u may perform an owner-scoped operation on a
// resource created by ownerID. Allowed roles always pass; the resource owner
// passes when the operation grants an owner override.
func CanOwn(u model.User, op Operation, ownerID uint64) bool {
	p, ok := permissions[op]
	if !ok {
		return false
	}
	if p.roles[u.Role] {
		return true
	}
	return p.owner && u.ID == ownerID
}
