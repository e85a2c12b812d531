package model

import "time"

// Roles form a closed set. Every user carries exactly one of these values in
// the `users.role` column and in the `user_role` claim of access tokens.
const (
	RoleAdmin     = "admin"
	RoleProfessor = "professor"
	RoleStudent   = "student"
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return true
	}
	return false
}

// User represents a row in the `users` table. PasswordHash is a bcrypt hash
// and must never leave the server; handlers define separate response types
// with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lower-cased email address used for login.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name.
//  LastName     – family name.
//  FatherName   – optional patronymic.
//  Role         – one of RoleAdmin, RoleProfessor, RoleStudent.
//  Phone        – optional phone number.
//  DateOfBirth  – optional date of birth.
//  IsActive     – whether the account may authenticate.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	FirstName    string     // users.first_name
	LastName     string     // users.last_name
	FatherName   string     // users.father_name (may be empty)
	Role         string     // users.role
	Phone        string     // users.phone_number (may be empty)
	DateOfBirth  *time.Time // users.date_of_birth (nullable)
	IsActive     bool       // users.is_active
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// FullName joins first, father and last name, skipping the father name when
// it is not set.
func (u User) FullName() string {
	if u.FatherName == "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName + " " + u.FatherName + " " + u.LastName
}
