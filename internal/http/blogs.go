package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/service"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/httpx"
)

// BlogsHandler serves the blog endpoints. Reads are public and show only
// published posts; any authenticated user writes posts, and edits are limited
// to the author or an admin.
type BlogsHandler struct {
	BlogService *service.BlogService
}

type blogRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

type blogView struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
}

func blogViewOf(b domain.Blog) blogView {
	return blogView{
		ID:        b.ID,
		AuthorID:  b.AuthorID,
		Title:     b.Title,
		Slug:      b.Slug,
		Content:   b.Content,
		Published: b.Published,
		CreatedAt: b.CreatedAt,
	}
}

// HandleList godoc
//
//	@Summary	List published blog posts
//	@Tags		Blogs
//	@Produce	json
//	@Success	200	{object}	httpx.Envelope
//	@Router		/blogs [get]
func (h *BlogsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Admins see drafts too.
	includeDrafts := roleOf(r) == domain.RoleAdmin

	blogs, err := h.BlogService.ListBlogs(r.Context(), includeDrafts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]blogView, 0, len(blogs))
	for _, b := range blogs {
		views = append(views, blogViewOf(b))
	}
	httpx.WriteSuccess(w, http.StatusOK, views)
}

// HandleGet godoc
//
//	@Summary	Blog post by slug
//	@Tags		Blogs
//	@Produce	json
//	@Param		slug	path		string	true	"Blog slug"
//	@Success	200		{object}	httpx.Envelope
//	@Failure	404		{object}	httpx.Envelope
//	@Router		/blogs/{slug} [get]
func (h *BlogsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	b, err := h.BlogService.GetBlogBySlug(r.Context(), r.PathValue("slug"), true)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Drafts exist only for their author and admins.
	if !b.Published {
		identity, ok := httpx.IdentityFromContext(r.Context())
		if !ok || (identity.ID != b.AuthorID && identity.Role != domain.RoleAdmin) {
			writeServiceError(w, r, service.ErrNotFound)
			return
		}
	}

	httpx.WriteSuccess(w, http.StatusOK, blogViewOf(b))
}

func (h *BlogsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := httpx.IdentityFromContext(r.Context())

	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.BlogService.CreateBlog(r.Context(), identity.ID, req.Title, req.Content, req.Published)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, blogViewOf(b))
}

func (h *BlogsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.gateAuthor(w, r) {
		return
	}

	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.BlogService.UpdateBlog(r.Context(), r.PathValue("id"), req.Title, req.Content, req.Published)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, blogViewOf(b))
}

func (h *BlogsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.gateAuthor(w, r) {
		return
	}

	if err := h.BlogService.DeleteBlog(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "blog deleted")
}

// gateAuthor allows a post's author and admins through; everyone else gets a
// 403. Writes a response and returns false on rejection.
func (h *BlogsHandler) gateAuthor(w http.ResponseWriter, r *http.Request) bool {
	identity, _ := httpx.IdentityFromContext(r.Context())

	b, err := h.BlogService.GetBlogByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return false
	}

	if b.AuthorID != identity.ID && identity.Role != domain.RoleAdmin {
		httpx.WriteError(w, http.StatusForbidden, "insufficient permissions")
		return false
	}
	return true
}

// roleOf returns the requester's role, or empty for anonymous requests. Public
// routes are not behind the session guard, so the identity is usually absent.
func roleOf(r *http.Request) string {
	if identity, ok := httpx.IdentityFromContext(r.Context()); ok {
		return identity.Role
	}
	return ""
}
