package store

import (
	"context"
	"errors"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Courses() Courses
	Sections() Sections
	Lessons() Lessons
	Blogs() Blogs
	Enrollments() Enrollments

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Users() Users
	Courses() Courses
	Sections() Sections
	Lessons() Lessons
	Blogs() Blogs
	Enrollments() Enrollments
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists on a duplicate email.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateProfile mutates full_name and avatar.
	UpdateProfile(ctx context.Context, userID, fullName, avatar string) error

	// UpdateRole changes the user's role. There is no HTTP surface for this;
	// promotion happens out of band.
	UpdateRole(ctx context.Context, userID, role string) error

	// DeleteUser removes a user; enrollments cascade per schema.
	DeleteUser(ctx context.Context, userID string) error
}

type Courses interface {
	GetCourseByID(ctx context.Context, id string) (domain.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	CreateCourse(ctx context.Context, c domain.Course) error
	UpdateCourse(ctx context.Context, c domain.Course) error
	DeleteCourse(ctx context.Context, id string) error
}

type Sections interface {
	GetSectionByID(ctx context.Context, id string) (domain.Section, error)
	ListSectionsByCourse(ctx context.Context, courseID string) ([]domain.Section, error)
	CreateSection(ctx context.Context, s domain.Section) error
	UpdateSection(ctx context.Context, s domain.Section) error
	DeleteSection(ctx context.Context, id string) error
}

type Lessons interface {
	GetLessonByID(ctx context.Context, id string) (domain.Lesson, error)
	ListLessonsBySection(ctx context.Context, sectionID string) ([]domain.Lesson, error)
	CreateLesson(ctx context.Context, l domain.Lesson) error
	UpdateLesson(ctx context.Context, l domain.Lesson) error
	DeleteLesson(ctx context.Context, id string) error
}

type Blogs interface {
	GetBlogByID(ctx context.Context, id string) (domain.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (domain.Blog, error)
	// ListBlogs returns published blogs; includeDrafts widens to everything.
	ListBlogs(ctx context.Context, includeDrafts bool) ([]domain.Blog, error)
	CreateBlog(ctx context.Context, b domain.Blog) error
	UpdateBlog(ctx context.Context, b domain.Blog) error
	DeleteBlog(ctx context.Context, id string) error
}

type Enrollments interface {
	// CreateEnrollment inserts a new enrollment. Returns ErrAlreadyExists when
	// the user is already enrolled in the course.
	CreateEnrollment(ctx context.Context, e domain.Enrollment) error
	GetEnrollment(ctx context.Context, userID, courseID string) (domain.Enrollment, error)
	ListEnrollmentsByUser(ctx context.Context, userID string) ([]domain.Enrollment, error)
	DeleteEnrollment(ctx context.Context, userID, courseID string) error
}
