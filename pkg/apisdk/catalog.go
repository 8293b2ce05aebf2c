package apisdk

import "context"

// Typed wrappers over the generic verbs for the platform's content endpoints.
// Reads work anonymously; enrollment calls require an authenticated session.

// Courses lists the course catalogue.
func (s *Session) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	err := s.Get(ctx, "/courses", &out)
	return out, err
}

// Course returns one course with its sections and lessons.
func (s *Session) Course(ctx context.Context, slug string) (Course, error) {
	var out Course
	err := s.Get(ctx, "/courses/"+slug, &out)
	return out, err
}

// Lesson returns a single lesson by id.
func (s *Session) Lesson(ctx context.Context, id string) (Lesson, error) {
	var out Lesson
	err := s.Get(ctx, "/lessons/"+id, &out)
	return out, err
}

// Blogs lists blog posts. Admin sessions also see drafts.
func (s *Session) Blogs(ctx context.Context) ([]Blog, error) {
	var out []Blog
	err := s.Get(ctx, "/blogs", &out)
	return out, err
}

// Blog returns one blog post by slug.
func (s *Session) Blog(ctx context.Context, slug string) (Blog, error) {
	var out Blog
	err := s.Get(ctx, "/blogs/"+slug, &out)
	return out, err
}

// Enroll enrolls the current user in a course.
func (s *Session) Enroll(ctx context.Context, courseID string) error {
	return s.Post(ctx, "/courses/"+courseID+"/enroll", nil, nil)
}

// Unenroll removes the current user's enrollment.
func (s *Session) Unenroll(ctx context.Context, courseID string) error {
	return s.Delete(ctx, "/courses/"+courseID+"/enroll")
}

// MyCourses lists the courses the current user is enrolled in.
func (s *Session) MyCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	err := s.Get(ctx, "/enrollments", &out)
	return out, err
}
