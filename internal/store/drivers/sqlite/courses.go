package sqlite

import (
	"context"
	"time"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
)

type coursesRepo struct {
	db dbtx
}

const courseColumns = `id, title, slug, description, thumbnail, created_by, created_at, updated_at`

func (r *coursesRepo) GetCourseByID(ctx context.Context, id string) (domain.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	return scanCourse(row)
}

func (r *coursesRepo) GetCourseBySlug(ctx context.Context, slug string) (domain.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE slug = ?`, slug)
	return scanCourse(row)
}

func (r *coursesRepo) ListCourses(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *coursesRepo) CreateCourse(ctx context.Context, c domain.Course) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, slug, description, thumbnail, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Slug, c.Description, c.Thumbnail, c.CreatedBy, now, now)
	return mapConflict(err)
}

func (r *coursesRepo) UpdateCourse(ctx context.Context, c domain.Course) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE courses SET title = ?, slug = ?, description = ?, thumbnail = ?, updated_at = ?
		 WHERE id = ?`,
		c.Title, c.Slug, c.Description, c.Thumbnail, time.Now().UTC(), c.ID))
}

func (r *coursesRepo) DeleteCourse(ctx context.Context, id string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM courses WHERE id = ?`, id))
}

func scanCourse(row rowScanner) (domain.Course, error) {
	var c domain.Course
	err := row.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description,
		&c.Thumbnail, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Course{}, mapNotFound(err)
	}
	return c, nil
}

type sectionsRepo struct {
	db dbtx
}

const sectionColumns = `id, course_id, title, position, created_at, updated_at`

func (r *sectionsRepo) GetSectionByID(ctx context.Context, id string) (domain.Section, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE id = ?`, id)
	return scanSection(row)
}

func (r *sectionsRepo) ListSectionsByCourse(ctx context.Context, courseID string) ([]domain.Section, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE course_id = ? ORDER BY position, id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sectionsRepo) CreateSection(ctx context.Context, s domain.Section) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sections (id, course_id, title, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.CourseID, s.Title, s.Position, now, now)
	return mapConflict(err)
}

func (r *sectionsRepo) UpdateSection(ctx context.Context, s domain.Section) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE sections SET title = ?, position = ?, updated_at = ? WHERE id = ?`,
		s.Title, s.Position, time.Now().UTC(), s.ID))
}

func (r *sectionsRepo) DeleteSection(ctx context.Context, id string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM sections WHERE id = ?`, id))
}

func scanSection(row rowScanner) (domain.Section, error) {
	var s domain.Section
	err := row.Scan(&s.ID, &s.CourseID, &s.Title, &s.Position, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Section{}, mapNotFound(err)
	}
	return s, nil
}

type lessonsRepo struct {
	db dbtx
}

const lessonColumns = `id, section_id, title, content, video_url, position, created_at, updated_at`

func (r *lessonsRepo) GetLessonByID(ctx context.Context, id string) (domain.Lesson, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons WHERE id = ?`, id)
	return scanLesson(row)
}

func (r *lessonsRepo) ListLessonsBySection(ctx context.Context, sectionID string) ([]domain.Lesson, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons WHERE section_id = ? ORDER BY position, id`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *lessonsRepo) CreateLesson(ctx context.Context, l domain.Lesson) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lessons (id, section_id, title, content, video_url, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.SectionID, l.Title, l.Content, l.VideoURL, l.Position, now, now)
	return mapConflict(err)
}

func (r *lessonsRepo) UpdateLesson(ctx context.Context, l domain.Lesson) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE lessons SET title = ?, content = ?, video_url = ?, position = ?, updated_at = ?
		 WHERE id = ?`,
		l.Title, l.Content, l.VideoURL, l.Position, time.Now().UTC(), l.ID))
}

func (r *lessonsRepo) DeleteLesson(ctx context.Context, id string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM lessons WHERE id = ?`, id))
}

func scanLesson(row rowScanner) (domain.Lesson, error) {
	var l domain.Lesson
	err := row.Scan(
		&l.ID, &l.SectionID, &l.Title, &l.Content,
		&l.VideoURL, &l.Position, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Lesson{}, mapNotFound(err)
	}
	return l, nil
}
