package sqlite

import (
	"context"
	"time"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
)

type enrollmentsRepo struct {
	db dbtx
}

func (r *enrollmentsRepo) CreateEnrollment(ctx context.Context, e domain.Enrollment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO enrollments (id, user_id, course_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		e.ID, e.UserID, e.CourseID, time.Now().UTC())
	return mapConflict(err)
}

func (r *enrollmentsRepo) GetEnrollment(ctx context.Context, userID, courseID string) (domain.Enrollment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, course_id, created_at
		 FROM enrollments WHERE user_id = ? AND course_id = ?`, userID, courseID)

	var e domain.Enrollment
	if err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.CreatedAt); err != nil {
		return domain.Enrollment{}, mapNotFound(err)
	}
	return e, nil
}

func (r *enrollmentsRepo) ListEnrollmentsByUser(ctx context.Context, userID string) ([]domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, course_id, created_at
		 FROM enrollments WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *enrollmentsRepo) DeleteEnrollment(ctx context.Context, userID, courseID string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM enrollments WHERE user_id = ? AND course_id = ?`, userID, courseID))
}
