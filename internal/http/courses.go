package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/service"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/httpx"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/slogx"
)

// CoursesHandler serves the course catalogue: courses, sections, lessons.
type CoursesHandler struct {
	CourseService *service.CourseService
}

type courseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

type sectionRequest struct {
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type lessonRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	VideoURL string `json:"videoUrl"`
	Position int    `json:"position"`
}

type courseView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

type sectionView struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Position int          `json:"position"`
	Lessons  []lessonView `json:"lessons,omitempty"`
}

type lessonView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
	Position int    `json:"position"`
}

func courseViewOf(c domain.Course) courseView {
	return courseView{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		Thumbnail:   c.Thumbnail,
	}
}

func lessonViewOf(l domain.Lesson) lessonView {
	return lessonView{
		ID:       l.ID,
		Title:    l.Title,
		Content:  l.Content,
		VideoURL: l.VideoURL,
		Position: l.Position,
	}
}

// HandleList godoc
//
//	@Summary	List courses
//	@Tags		Courses
//	@Produce	json
//	@Success	200	{object}	httpx.Envelope
//	@Router		/courses [get]
func (h *CoursesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	courses, err := h.CourseService.ListCourses(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]courseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, courseViewOf(c))
	}
	httpx.WriteSuccess(w, http.StatusOK, views)
}

// HandleGet godoc
//
//	@Summary	Course detail with sections and lessons
//	@Tags		Courses
//	@Produce	json
//	@Param		slug	path		string	true	"Course slug"
//	@Success	200		{object}	httpx.Envelope
//	@Failure	404		{object}	httpx.Envelope
//	@Router		/courses/{slug} [get]
func (h *CoursesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.CourseService.GetCourseBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view := struct {
		courseView
		Sections []sectionView `json:"sections"`
	}{
		courseView: courseViewOf(detail.Course),
		Sections:   make([]sectionView, 0, len(detail.Sections)),
	}

	for _, sec := range detail.Sections {
		sv := sectionView{
			ID:       sec.Section.ID,
			Title:    sec.Section.Title,
			Position: sec.Section.Position,
			Lessons:  make([]lessonView, 0, len(sec.Lessons)),
		}
		for _, l := range sec.Lessons {
			sv.Lessons = append(sv.Lessons, lessonViewOf(l))
		}
		view.Sections = append(view.Sections, sv)
	}

	httpx.WriteSuccess(w, http.StatusOK, view)
}

func (h *CoursesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.CourseService.CreateCourse(r.Context(), identity.ID, req.Title, req.Description, req.Thumbnail)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, courseViewOf(c))
}

func (h *CoursesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.CourseService.UpdateCourse(r.Context(), r.PathValue("id"), req.Title, req.Description, req.Thumbnail)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, courseViewOf(c))
}

func (h *CoursesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CourseService.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "course deleted")
}

func (h *CoursesHandler) HandleCreateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sec, err := h.CourseService.CreateSection(r.Context(), r.PathValue("id"), req.Title, req.Position)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, sectionView{
		ID:       sec.ID,
		Title:    sec.Title,
		Position: sec.Position,
	})
}

func (h *CoursesHandler) HandleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sec, err := h.CourseService.UpdateSection(r.Context(), r.PathValue("id"), req.Title, req.Position)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, sectionView{
		ID:       sec.ID,
		Title:    sec.Title,
		Position: sec.Position,
	})
}

func (h *CoursesHandler) HandleDeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := h.CourseService.DeleteSection(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "section deleted")
}

func (h *CoursesHandler) HandleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.CourseService.CreateLesson(r.Context(), r.PathValue("id"), req.Title, req.Content, req.VideoURL, req.Position)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, lessonViewOf(l))
}

func (h *CoursesHandler) HandleGetLesson(w http.ResponseWriter, r *http.Request) {
	l, err := h.CourseService.GetLessonByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, lessonViewOf(l))
}

func (h *CoursesHandler) HandleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.CourseService.UpdateLesson(r.Context(), r.PathValue("id"), req.Title, req.Content, req.VideoURL, req.Position)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, lessonViewOf(l))
}

func (h *CoursesHandler) HandleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := h.CourseService.DeleteLesson(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "lesson deleted")
}

// writeServiceError maps service sentinels onto the response envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, service.ErrSlugTaken):
		httpx.WriteError(w, http.StatusConflict, "a resource with this title already exists")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		httpx.WriteError(w, http.StatusConflict, "already enrolled")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
