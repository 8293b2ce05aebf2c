package http

import (
	"net/http"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/service"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/httpx"
)

// EnrollmentsHandler serves enrollment endpoints. All of them sit behind the
// session guard; the acting user is always the one in the request context.
type EnrollmentsHandler struct {
	EnrollmentService *service.EnrollmentService
}

// HandleEnroll godoc
//
//	@Summary	Enroll in a course
//	@Tags		Enrollments
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Course id"
//	@Success	201	{object}	httpx.Envelope
//	@Failure	404	{object}	httpx.Envelope
//	@Failure	409	{object}	httpx.Envelope	"already enrolled"
//	@Router		/courses/{id}/enroll [post]
func (h *EnrollmentsHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	e, err := h.EnrollmentService.Enroll(r.Context(), identity.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, map[string]string{
		"id":       e.ID,
		"courseId": e.CourseID,
	})
}

func (h *EnrollmentsHandler) HandleUnenroll(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	if err := h.EnrollmentService.Unenroll(r.Context(), identity.ID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "unenrolled")
}

// HandleListMine godoc
//
//	@Summary	Courses the current user is enrolled in
//	@Tags		Enrollments
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	httpx.Envelope
//	@Router		/enrollments [get]
func (h *EnrollmentsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	courses, err := h.EnrollmentService.ListMyCourses(r.Context(), identity.ID)
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
