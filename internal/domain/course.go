package domain

import "time"

type Course struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Thumbnail   string
	CreatedBy   string // user id of the authoring admin
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Section groups lessons inside a course. Position is a plain integer order;
// drag-and-drop reordering semantics live entirely in the web client.
type Section struct {
	ID        string
	CourseID  string
	Title     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Lesson struct {
	ID        string
	SectionID string
	Title     string
	Content   string
	VideoURL  string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
