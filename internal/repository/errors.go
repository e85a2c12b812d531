// Package repository implements MySQL data access for users, courses,
// lessons and schedule events. Lookup methods return sql.ErrNoRows when a
// record does not exist; the sentinel errors below cover constraint
// violations that handlers translate into 4xx responses.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert or update would violate the
// unique email constraint. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrOrderTaken is returned when a lesson insert or update collides with an
// existing (course, order) pair. Handlers translate it into HTTP 409.
var ErrOrderTaken = errors.New("lesson order already taken")

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
