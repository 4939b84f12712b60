package model

import "time"

// Role defines what a user is allowed to see and change.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is an account on the dashboard. Password holds the bcrypt hash and
// must be stripped with Sanitized before leaving the server.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"password,omitempty"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	Institution string    `json:"institution,omitempty"`
	Major       string    `json:"major,omitempty"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Sanitized returns a copy safe to serialize in API responses.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
