package apisdk

import "encoding/json"

// envelope is the JSON body shape every endpoint responds with.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// User is the identity record the API returns.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// sessionResponse is the body of a successful login or registration. The
// refresh token is NOT here; it arrives as an http-only cookie captured by
// the transport jar.
type sessionResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Course is a catalogue entry.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Sections    []Section `json:"sections,omitempty"`
}

type Section struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Position int      `json:"position"`
	Lessons  []Lesson `json:"lessons,omitempty"`
}

type Lesson struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
	Position int    `json:"position"`
}

// Blog is a blog post as the API returns it.
type Blog struct {
	ID        string `json:"id"`
	AuthorID  string `json:"authorId"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content,omitempty"`
	Published bool   `json:"published"`
}
