package domain

import "time"

// Enrollment links a student to a course. The (UserID, CourseID) pair is
// unique; enrolling twice is a conflict, not a second row.
type Enrollment struct {
	ID        string
	UserID    string
	CourseID  string
	CreatedAt time.Time
}
