package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Role identifies the kind of account a user holds.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a backend role string to a Role, defaulting to student.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleStudent
}

// User is the canonical profile shape cached in the session. It is treated as
// an immutable snapshot: edits go through the backend and replace it wholesale.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Course    string    `json:"course,omitempty"`
}

// FullName joins the first and last name, tolerating either being empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
