package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/service"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store/drivers/sqlite"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.GenerateSigner()
	require.NoError(t, err)
	verifier := jwtx.NewVerifier(signer.Public(), "test-issuer")

	r := NewRouter(verifier, "test", st, slog.New(slog.DiscardHandler))
	r.TokenService = &service.TokenService{
		Signer:     signer,
		Verifier:   verifier,
		Store:      st,
		Issuer:     "test-issuer",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
	r.UserService = &service.UserService{Store: st}
	r.CourseService = &service.CourseService{Store: st}
	r.BlogService = &service.BlogService{Store: st}
	r.EnrollmentService = &service.EnrollmentService{Store: st}
	r.ApplyRoutes()

	return r
}

func doJSON(t *testing.T, router *Router, method, path string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, fn := range mutate {
		fn(req)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success, "body: %s", rec.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func refreshCookieOf(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", refreshCookieName)
	return nil
}

func TestRegisterSetsRefreshCookieAndOmitsItFromBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
		"fullName": "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	payload := decodeData[sessionResponse](t, rec)
	require.NotEmpty(t, payload.AccessToken)
	require.Equal(t, "alice@example.com", payload.User.Email)
	require.Equal(t, "student", payload.User.Role)

	cookie := refreshCookieOf(t, rec)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, "/auth", cookie.Path)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Greater(t, cookie.MaxAge, 0)

	// The refresh token travels only in the cookie, never in the JSON body.
	require.NotContains(t, rec.Body.String(), cookie.Value)
}

func TestLoginRejectionsAreUniform(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
		"fullName": "Bob", "email": "bob@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email": "bob@example.com", "password": "wrong",
	})
	unknownEmail := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String(),
		"wrong password and unknown email must be indistinguishable")
}

func TestRefreshReadsCookieOnly(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
		"fullName": "Carol", "email": "carol@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	cookie := refreshCookieOf(t, rec)

	t.Run("valid cookie yields a fresh access token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/refresh-token", nil, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: refreshCookieName, Value: cookie.Value})
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		payload := decodeData[map[string]string](t, rec)
		require.NotEmpty(t, payload["accessToken"])

		claims, err := router.TokenService.Verifier.Verify(payload["accessToken"])
		require.NoError(t, err)
		require.NoError(t, claims.ValidateUse(jwtx.TokenUseAccess))
	})

	t.Run("missing cookie is a 401", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/refresh-token", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token in the body is ignored", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/refresh-token",
			map[string]string{"refreshToken": cookie.Value})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage cookie is rejected and cleared", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/refresh-token", nil, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "not.a.jwt"})
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		cleared := refreshCookieOf(t, rec)
		require.Empty(t, cleared.Value)
		require.Negative(t, cleared.MaxAge)
	})
}

func TestLogoutClearsRefreshCookie(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := refreshCookieOf(t, rec)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)
}

func TestSessionGuard(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
		"fullName": "Dave", "email": "dave@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decodeData[sessionResponse](t, rec)
	refreshCookie := refreshCookieOf(t, rec)

	bearer := func(token string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
	}

	t.Run("valid access token passes", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/auth/me", nil, bearer(session.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		me := decodeData[userView](t, rec)
		require.Equal(t, session.User.ID, me.ID)
	})

	t.Run("missing and malformed tokens get the same 401", func(t *testing.T) {
		missing := doJSON(t, router, http.MethodGet, "/auth/me", nil)
		malformed := doJSON(t, router, http.MethodGet, "/auth/me", nil, bearer("garbage"))

		require.Equal(t, http.StatusUnauthorized, missing.Code)
		require.Equal(t, http.StatusUnauthorized, malformed.Code)
		require.JSONEq(t, missing.Body.String(), malformed.Body.String())
	})

	t.Run("refresh token is not a bearer credential", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/auth/me", nil, bearer(refreshCookie.Value))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired access token is rejected", func(t *testing.T) {
		stale, err := router.TokenService.Signer.Sign(jwtx.NewAccessClaims(
			session.User.ID, "student", "Dave", "dave@example.com", "",
			-time.Minute, "test-issuer", time.Now(),
		))
		require.NoError(t, err)

		rec := doJSON(t, router, http.MethodGet, "/auth/me", nil, bearer(stale))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deleted account stops working before token expiry", func(t *testing.T) {
		ctx := t.Context()
		require.NoError(t, router.store.Users().DeleteUser(ctx, session.User.ID))

		rec := doJSON(t, router, http.MethodGet, "/auth/me", nil, bearer(session.AccessToken))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
		"fullName": "Frank", "email": "frank@example.com", "password": "oldpassword",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	frank := decodeData[sessionResponse](t, rec)

	bearer := func(token string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
	}

	t.Run("wrong current password is a 401", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/auth/"+frank.User.ID+"/password",
			map[string]string{"currentPassword": "not-it", "newPassword": "newpassword"},
			bearer(frank.AccessToken))
		require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	})

	t.Run("short new password is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/auth/"+frank.User.ID+"/password",
			map[string]string{"currentPassword": "oldpassword", "newPassword": "tiny"},
			bearer(frank.AccessToken))
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("changing someone else's password is forbidden", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
			"fullName": "Grace", "email": "grace@example.com", "password": "secret123",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		grace := decodeData[sessionResponse](t, rec)

		rec = doJSON(t, router, http.MethodPut, "/auth/"+frank.User.ID+"/password",
			map[string]string{"currentPassword": "oldpassword", "newPassword": "newpassword"},
			bearer(grace.AccessToken))
		require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	})

	t.Run("successful change invalidates the old password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/auth/"+frank.User.ID+"/password",
			map[string]string{"currentPassword": "oldpassword", "newPassword": "newpassword"},
			bearer(frank.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		old := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
			"email": "frank@example.com", "password": "oldpassword",
		})
		require.Equal(t, http.StatusUnauthorized, old.Code)

		fresh := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
			"email": "frank@example.com", "password": "newpassword",
		})
		require.Equal(t, http.StatusOK, fresh.Code, fresh.Body.String())
	})

	t.Run("admin reset of an unknown user id is a 404", func(t *testing.T) {
		require.NoError(t, router.store.Users().UpdateRole(t.Context(), frank.User.ID, domain.RoleAdmin))

		rec := doJSON(t, router, http.MethodPut, "/auth/no-such-user/password",
			map[string]string{"currentPassword": "whatever", "newPassword": "newpassword"},
			bearer(frank.AccessToken))
		require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	})
}

func TestUpdateProfileEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
		"fullName": "Heidi", "email": "heidi@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	heidi := decodeData[sessionResponse](t, rec)

	bearer := func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+heidi.AccessToken)
	}

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/auth/me", map[string]string{
			"fullName": "Heidi H.",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/auth/me", map[string]string{
			"fullName": "   ",
		}, bearer)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("update is persisted", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/auth/me", map[string]string{
			"fullName": "Heidi Hacker",
			"avatar":   "https://example.com/heidi.png",
		}, bearer)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		updated := decodeData[userView](t, rec)
		require.Equal(t, "Heidi Hacker", updated.FullName)
		require.Equal(t, "https://example.com/heidi.png", updated.Avatar)

		me := doJSON(t, router, http.MethodGet, "/auth/me", nil, bearer)
		require.Equal(t, http.StatusOK, me.Code)
		view := decodeData[userView](t, me)
		require.Equal(t, "Heidi Hacker", view.FullName)
		require.Equal(t, "https://example.com/heidi.png", view.Avatar)
	})
}

func TestAdminGateOnCatalogueWrites(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", map[string]string{
		"fullName": "Eve", "email": "eve@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	student := decodeData[sessionResponse](t, rec)

	course := map[string]any{"title": "Learn Go", "description": "From scratch"}

	t.Run("student is forbidden", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/courses", course, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+student.AccessToken)
		})
		require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/courses", course)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin may write", func(t *testing.T) {
		// The guard re-loads the user on every request, so an out-of-band
		// promotion takes effect without a new token.
		require.NoError(t, router.store.Users().UpdateRole(t.Context(), student.User.ID, domain.RoleAdmin))

		rec := doJSON(t, router, http.MethodPost, "/courses", course, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+student.AccessToken)
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		created := decodeData[courseView](t, rec)
		require.Equal(t, "learn-go", created.Slug)
	})
}
