package domain

import "time"

// Role values. The platform only distinguishes administrators (course/blog
// authors) from students.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStudent
}

type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string // argon2id encoded
	Role         string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
