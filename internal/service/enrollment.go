package service

import (
	"context"
	"errors"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/idx"
)

var ErrAlreadyEnrolled = errors.New("already_enrolled")

// EnrollmentService tracks which students are enrolled in which courses.
type EnrollmentService struct {
	Store store.Store
}

// Enroll registers the user in the course. Enrolling twice is a conflict, not
// a second row. The course existence check and the insert run in one
// transaction so the course cannot be deleted between the two.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) (domain.Enrollment, error) {
	e := domain.Enrollment{
		ID:       idx.New().String(),
		UserID:   userID,
		CourseID: courseID,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Courses().GetCourseByID(ctx, courseID); err != nil {
			return mapStoreErr(err)
		}
		return tx.Enrollments().CreateEnrollment(ctx, e)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Enrollment{}, ErrAlreadyEnrolled
		}
		return domain.Enrollment{}, err
	}
	return e, nil
}

// Unenroll removes the user's enrollment in the course.
func (s *EnrollmentService) Unenroll(ctx context.Context, userID, courseID string) error {
	return mapStoreErr(s.Store.Enrollments().DeleteEnrollment(ctx, userID, courseID))
}

// IsEnrolled reports whether the user is enrolled in the course.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	_, err := s.Store.Enrollments().GetEnrollment(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListMyCourses resolves the courses the user is enrolled in.
func (s *EnrollmentService) ListMyCourses(ctx context.Context, userID string) ([]domain.Course, error) {
	enrollments, err := s.Store.Enrollments().ListEnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses := make([]domain.Course, 0, len(enrollments))
	for _, e := range enrollments {
		c, err := s.Store.Courses().GetCourseByID(ctx, e.CourseID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue // course deleted out from under the enrollment
			}
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}
