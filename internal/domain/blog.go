package domain

import "time"

type Blog struct {
	ID        string
	AuthorID  string
	Title     string
	Slug      string
	Content   string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
