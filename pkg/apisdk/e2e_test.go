package apisdk

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	httpapi "github.com/nguyenthanhcong03/f8-clone-sub000/internal/http"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/service"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store/drivers/sqlite"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// newPlatform boots the real router on an in-memory database so the SDK can be
// exercised against actual token issuance and the actual session guard.
func newPlatform(t *testing.T) (*httptest.Server, *service.TokenService) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.GenerateSigner()
	require.NoError(t, err)
	verifier := jwtx.NewVerifier(signer.Public(), "e2e")

	tokens := &service.TokenService{
		Signer:     signer,
		Verifier:   verifier,
		Store:      st,
		Issuer:     "e2e",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}

	router := httpapi.NewRouter(verifier, "test", st, slog.New(slog.DiscardHandler))
	router.TokenService = tokens
	router.UserService = &service.UserService{Store: st}
	router.CourseService = &service.CourseService{Store: st}
	router.BlogService = &service.BlogService{Store: st}
	router.EnrollmentService = &service.EnrollmentService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, tokens
}

func TestExpiredAccessTokenIsRenewedThroughRefreshCookie(t *testing.T) {
	ctx := context.Background()
	srv, tokens := newPlatform(t)

	store := NewTokenStore(NopMirror{})
	client, err := NewClient(srv.URL, store)
	require.NoError(t, err)
	session := NewSession(client)

	u, err := session.Register(ctx, "Frank", "frank@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, StateAuthenticated, session.State())

	// Swap in an access token that is already past its expiry. The jar still
	// holds the refresh cookie from registration, so the first protected call
	// must renew through it and replay.
	expired := jwtx.NewAccessClaims(u.ID, u.Role, u.FullName, u.Email, "", -time.Minute, "e2e", time.Now())
	stale, err := tokens.Signer.Sign(expired)
	require.NoError(t, err)
	require.NoError(t, store.Set(stale))

	got, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "frank@example.com", got.Email)

	require.Equal(t, StateAuthenticated, session.State())
	require.NotEqual(t, stale, store.Get(), "renewal must have installed a fresh access token")

	claims, err := tokens.Verifier.Verify(store.Get())
	require.NoError(t, err)
	require.NoError(t, claims.ValidateUse(jwtx.TokenUseAccess))
	require.Equal(t, u.ID, claims.Subject)
}

func TestCatalogueAndEnrollmentRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv, tokens := newPlatform(t)

	newSession := func(name, email string) *Session {
		store := NewTokenStore(NopMirror{})
		client, err := NewClient(srv.URL, store)
		require.NoError(t, err)
		session := NewSession(client)
		_, err = session.Register(ctx, name, email, "secret123")
		require.NoError(t, err)
		return session
	}

	admin := newSession("Admin", "admin@example.com")
	student := newSession("Student", "student@example.com")

	// Promotion happens out of band; the guard re-loads the user, so the
	// existing access token starts working as admin immediately.
	me, err := admin.Me(ctx)
	require.NoError(t, err)
	require.NoError(t, tokens.Store.Users().UpdateRole(ctx, me.ID, "admin"))

	var created Course
	require.NoError(t, admin.Post(ctx, "/courses", map[string]string{
		"title":       "Learn Go",
		"description": "From scratch",
	}, &created))
	require.Equal(t, "learn-go", created.Slug)

	t.Run("student reads the catalogue", func(t *testing.T) {
		courses, err := student.Courses(ctx)
		require.NoError(t, err)
		require.Len(t, courses, 1)

		detail, err := student.Course(ctx, "learn-go")
		require.NoError(t, err)
		require.Equal(t, created.ID, detail.ID)
	})

	t.Run("student enrolls once", func(t *testing.T) {
		require.NoError(t, student.Enroll(ctx, created.ID))

		err := student.Enroll(ctx, created.ID)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 409, apiErr.StatusCode)

		mine, err := student.MyCourses(ctx)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Equal(t, created.ID, mine[0].ID)
	})

	t.Run("catalogue writes are admin only", func(t *testing.T) {
		err := student.Post(ctx, "/courses", map[string]string{"title": "Nope"}, nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 403, apiErr.StatusCode)
	})

	t.Run("profile edits round-trip", func(t *testing.T) {
		updated, err := student.UpdateProfile(ctx, "Student Prime", "https://example.com/avatar.png")
		require.NoError(t, err)
		require.Equal(t, "Student Prime", updated.FullName)

		me, err := student.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, "Student Prime", me.FullName)
		require.Equal(t, "https://example.com/avatar.png", me.Avatar)
	})

	t.Run("drafts are visible to admins only", func(t *testing.T) {
		var draft Blog
		require.NoError(t, admin.Post(ctx, "/blogs", map[string]any{
			"title":     "Unfinished thoughts",
			"content":   "wip",
			"published": false,
		}, &draft))

		publicList, err := student.Blogs(ctx)
		require.NoError(t, err)
		require.Empty(t, publicList)

		adminList, err := admin.Blogs(ctx)
		require.NoError(t, err)
		require.Len(t, adminList, 1)
	})
}

func TestMissingRefreshCookieFailsClosedUntilNextLogin(t *testing.T) {
	ctx := context.Background()
	srv, tokens := newPlatform(t)

	// Register through a throwaway session so an account exists; the session
	// under test starts with an expired access token and an empty cookie jar.
	setupStore := NewTokenStore(NopMirror{})
	setupClient, err := NewClient(srv.URL, setupStore)
	require.NoError(t, err)
	u, err := NewSession(setupClient).Register(ctx, "Grace", "grace@example.com", "secret123")
	require.NoError(t, err)

	expired := jwtx.NewAccessClaims(u.ID, u.Role, u.FullName, u.Email, "", -time.Minute, "e2e", time.Now())
	stale, err := tokens.Signer.Sign(expired)
	require.NoError(t, err)

	store := NewTokenStore(NopMirror{})
	require.NoError(t, store.Set(stale))
	client, err := NewClient(srv.URL, store)
	require.NoError(t, err)
	session := NewSession(client)
	require.Equal(t, StateAuthenticated, session.State(), "a seeded store starts the session authenticated")

	var loggedOut atomic.Int64
	session.OnLogout = func() { loggedOut.Add(1) }

	// No refresh cookie: renewal 401s, the session tears down, and the caller
	// sees the original 401.
	_, err = session.Me(ctx)
	require.True(t, IsUnauthorized(err), "got: %v", err)
	require.Empty(t, store.Get())
	require.Equal(t, StateExpired, session.State())
	require.EqualValues(t, 1, loggedOut.Load())

	// Expired sessions do not retry renewal on their own.
	_, err = session.Me(ctx)
	require.True(t, IsUnauthorized(err), "got: %v", err)
	require.EqualValues(t, 1, loggedOut.Load())

	// A fresh login is the only way back in.
	got, err := session.Login(ctx, "grace@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, StateAuthenticated, session.State())

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", me.Email)
}
