package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/idx"
)

var (
	ErrSlugTaken = errors.New("slug_taken")
	ErrNotFound  = errors.New("not_found")
)

// CourseService manages the course catalogue: courses, their sections, and
// the lessons inside each section.
type CourseService struct {
	Store store.Store
}

// CourseDetail is a course with its sections and lessons resolved, the shape
// the course page renders from.
type CourseDetail struct {
	Course   domain.Course
	Sections []SectionDetail
}

type SectionDetail struct {
	Section domain.Section
	Lessons []domain.Lesson
}

func (s *CourseService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.Store.Courses().ListCourses(ctx)
}

// GetCourseBySlug resolves a course plus its full section/lesson tree.
func (s *CourseService) GetCourseBySlug(ctx context.Context, slug string) (CourseDetail, error) {
	c, err := s.Store.Courses().GetCourseBySlug(ctx, slug)
	if err != nil {
		return CourseDetail{}, mapStoreErr(err)
	}

	sections, err := s.Store.Sections().ListSectionsByCourse(ctx, c.ID)
	if err != nil {
		return CourseDetail{}, err
	}

	detail := CourseDetail{Course: c, Sections: make([]SectionDetail, 0, len(sections))}
	for _, sec := range sections {
		lessons, err := s.Store.Lessons().ListLessonsBySection(ctx, sec.ID)
		if err != nil {
			return CourseDetail{}, err
		}
		detail.Sections = append(detail.Sections, SectionDetail{Section: sec, Lessons: lessons})
	}
	return detail, nil
}

func (s *CourseService) CreateCourse(ctx context.Context, createdBy, title, description, thumbnail string) (domain.Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Course{}, ErrInvalidInput
	}

	c := domain.Course{
		ID:          idx.New().String(),
		Title:       title,
		Slug:        Slugify(title),
		Description: description,
		Thumbnail:   thumbnail,
		CreatedBy:   createdBy,
	}

	if err := s.Store.Courses().CreateCourse(ctx, c); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Course{}, ErrSlugTaken
		}
		return domain.Course{}, err
	}
	return c, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, id, title, description, thumbnail string) (domain.Course, error) {
	c, err := s.Store.Courses().GetCourseByID(ctx, id)
	if err != nil {
		return domain.Course{}, mapStoreErr(err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Course{}, ErrInvalidInput
	}

	c.Title = title
	c.Slug = Slugify(title)
	c.Description = description
	c.Thumbnail = thumbnail

	if err := s.Store.Courses().UpdateCourse(ctx, c); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Course{}, ErrSlugTaken
		}
		return domain.Course{}, mapStoreErr(err)
	}
	return c, nil
}

// DeleteCourse removes a course; sections, lessons and enrollments cascade.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	return mapStoreErr(s.Store.Courses().DeleteCourse(ctx, id))
}

func (s *CourseService) CreateSection(ctx context.Context, courseID, title string, position int) (domain.Section, error) {
	if _, err := s.Store.Courses().GetCourseByID(ctx, courseID); err != nil {
		return domain.Section{}, mapStoreErr(err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Section{}, ErrInvalidInput
	}

	sec := domain.Section{
		ID:       idx.New().String(),
		CourseID: courseID,
		Title:    title,
		Position: position,
	}
	if err := s.Store.Sections().CreateSection(ctx, sec); err != nil {
		return domain.Section{}, err
	}
	return sec, nil
}

func (s *CourseService) UpdateSection(ctx context.Context, id, title string, position int) (domain.Section, error) {
	sec, err := s.Store.Sections().GetSectionByID(ctx, id)
	if err != nil {
		return domain.Section{}, mapStoreErr(err)
	}

	sec.Title = strings.TrimSpace(title)
	if sec.Title == "" {
		return domain.Section{}, ErrInvalidInput
	}
	sec.Position = position

	if err := s.Store.Sections().UpdateSection(ctx, sec); err != nil {
		return domain.Section{}, mapStoreErr(err)
	}
	return sec, nil
}

func (s *CourseService) DeleteSection(ctx context.Context, id string) error {
	return mapStoreErr(s.Store.Sections().DeleteSection(ctx, id))
}

func (s *CourseService) CreateLesson(ctx context.Context, sectionID, title, content, videoURL string, position int) (domain.Lesson, error) {
	if _, err := s.Store.Sections().GetSectionByID(ctx, sectionID); err != nil {
		return domain.Lesson{}, mapStoreErr(err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Lesson{}, ErrInvalidInput
	}

	l := domain.Lesson{
		ID:        idx.New().String(),
		SectionID: sectionID,
		Title:     title,
		Content:   content,
		VideoURL:  videoURL,
		Position:  position,
	}
	if err := s.Store.Lessons().CreateLesson(ctx, l); err != nil {
		return domain.Lesson{}, err
	}
	return l, nil
}

func (s *CourseService) GetLessonByID(ctx context.Context, id string) (domain.Lesson, error) {
	l, err := s.Store.Lessons().GetLessonByID(ctx, id)
	return l, mapStoreErr(err)
}

func (s *CourseService) UpdateLesson(ctx context.Context, id, title, content, videoURL string, position int) (domain.Lesson, error) {
	l, err := s.Store.Lessons().GetLessonByID(ctx, id)
	if err != nil {
		return domain.Lesson{}, mapStoreErr(err)
	}

	l.Title = strings.TrimSpace(title)
	if l.Title == "" {
		return domain.Lesson{}, ErrInvalidInput
	}
	l.Content = content
	l.VideoURL = videoURL
	l.Position = position

	if err := s.Store.Lessons().UpdateLesson(ctx, l); err != nil {
		return domain.Lesson{}, mapStoreErr(err)
	}
	return l, nil
}

func (s *CourseService) DeleteLesson(ctx context.Context, id string) error {
	return mapStoreErr(s.Store.Lessons().DeleteLesson(ctx, id))
}

// Slugify lowercases the title and collapses everything that isn't a letter
// or digit into single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
