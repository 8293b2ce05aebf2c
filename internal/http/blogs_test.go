package http

import (
	"net/http"
	"testing"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, router *Router, name, email string) sessionResponse {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
		"fullName": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[sessionResponse](t, rec)
}

func TestBlogAuthorshipAndDraftVisibility(t *testing.T) {
	router := newTestRouter(t)

	author := registerUser(t, router, "Author", "author@example.com")
	other := registerUser(t, router, "Other", "other@example.com")
	admin := registerUser(t, router, "Admin", "admin@example.com")
	require.NoError(t, router.store.Users().UpdateRole(t.Context(), admin.User.ID, domain.RoleAdmin))

	bearer := func(token string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
	}

	rec := doJSON(t, router, http.MethodPost, "/blogs", map[string]any{
		"title":     "Notes on Goroutines",
		"content":   "wip",
		"published": false,
	}, bearer(author.AccessToken))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	draft := decodeData[blogView](t, rec)
	require.Equal(t, author.User.ID, draft.AuthorID)

	t.Run("drafts are invisible to the public", func(t *testing.T) {
		list := doJSON(t, router, http.MethodGet, "/blogs", nil)
		require.Equal(t, http.StatusOK, list.Code)
		require.Empty(t, decodeData[[]blogView](t, list))

		get := doJSON(t, router, http.MethodGet, "/blogs/"+draft.Slug, nil)
		require.Equal(t, http.StatusNotFound, get.Code)
	})

	t.Run("the author and admins see the draft", func(t *testing.T) {
		for _, token := range []string{author.AccessToken, admin.AccessToken} {
			rec := doJSON(t, router, http.MethodGet, "/blogs/"+draft.Slug, nil, bearer(token))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		}

		rec := doJSON(t, router, http.MethodGet, "/blogs/"+draft.Slug, nil, bearer(other.AccessToken))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("only the author or an admin may edit", func(t *testing.T) {
		update := map[string]any{"title": "Notes on Goroutines", "content": "done", "published": true}

		rec := doJSON(t, router, http.MethodPut, "/blogs/"+draft.ID, update, bearer(other.AccessToken))
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = doJSON(t, router, http.MethodPut, "/blogs/"+draft.ID, update, bearer(author.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.True(t, decodeData[blogView](t, rec).Published)
	})

	t.Run("published posts are public", func(t *testing.T) {
		list := doJSON(t, router, http.MethodGet, "/blogs", nil)
		require.Len(t, decodeData[[]blogView](t, list), 1)
	})

	t.Run("admin may delete another author's post", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/blogs/"+draft.ID, nil, bearer(admin.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code)

		get := doJSON(t, router, http.MethodGet, "/blogs/"+draft.Slug, nil)
		require.Equal(t, http.StatusNotFound, get.Code)
	})
}
