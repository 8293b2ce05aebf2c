package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/service"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/httpx"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/jwtx"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/slogx"

	_ "github.com/nguyenthanhcong03/f8-clone-sub000/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	TokenService      *service.TokenService
	UserService       *service.UserService
	CourseService     *service.CourseService
	BlogService       *service.BlogService
	EnrollmentService *service.EnrollmentService

	// CookieSecure controls the Secure flag on the refresh cookie; off for
	// local development over plain http.
	CookieSecure bool
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerCourses()
	r.registerBlogs()
	r.registerEnrollments()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			F8 Clone Learning Platform API
//	@version		0.1.0
//	@description	Course and blog platform with stateless JWT sessions. Access tokens
//	@description	are short-lived bearer tokens; refresh tokens travel only in an
//	@description	http-only cookie and are exchanged at /auth/refresh-token.
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn builds the session guard chain for a protected route.
func (r *Router) authn(h http.Handler, extra ...httpx.Middleware) http.Handler {
	chain := append([]httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier, r.UserService),
	}, extra...)
	return httpx.Chain(h, chain...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		TokenService: r.TokenService,
		UserService:  r.UserService,
		CookieSecure: r.CookieSecure,
	}

	// Credential endpoints get the strict per-IP limit.
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/refresh-token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/logout", http.HandlerFunc(h.HandleLogout))

	r.Mux.Handle("GET /auth/me",
		r.authn(http.HandlerFunc(h.HandleMe),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /auth/me",
		r.authn(http.HandlerFunc(h.HandleUpdateProfile),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /auth/{id}/password",
		r.authn(http.HandlerFunc(h.HandleChangePassword),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerCourses() {
	h := &CoursesHandler{CourseService: r.CourseService}

	// Public catalogue reads.
	r.Mux.Handle("GET /courses", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("GET /courses/{slug}", http.HandlerFunc(h.HandleGet))
	r.Mux.Handle("GET /lessons/{id}", http.HandlerFunc(h.HandleGetLesson))

	// Catalogue writes are admin-only.
	admin := func(fn http.HandlerFunc) http.Handler {
		return r.authn(fn,
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /courses", admin(h.HandleCreate))
	r.Mux.Handle("PUT /courses/{id}", admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /courses/{id}", admin(h.HandleDelete))

	r.Mux.Handle("POST /courses/{id}/sections", admin(h.HandleCreateSection))
	r.Mux.Handle("PUT /sections/{id}", admin(h.HandleUpdateSection))
	r.Mux.Handle("DELETE /sections/{id}", admin(h.HandleDeleteSection))

	r.Mux.Handle("POST /sections/{id}/lessons", admin(h.HandleCreateLesson))
	r.Mux.Handle("PUT /lessons/{id}", admin(h.HandleUpdateLesson))
	r.Mux.Handle("DELETE /lessons/{id}", admin(h.HandleDeleteLesson))
}

func (r *Router) registerBlogs() {
	h := &BlogsHandler{BlogService: r.BlogService}

	// Reads are public, but an authenticated admin sees drafts, so the routes
	// parse the bearer token when one is offered.
	optional := httpx.OptionalAuthnMiddleware(r.verifier, r.UserService)
	r.Mux.Handle("GET /blogs", httpx.Chain(http.HandlerFunc(h.HandleList), optional))
	r.Mux.Handle("GET /blogs/{slug}", httpx.Chain(http.HandlerFunc(h.HandleGet), optional))

	// Any authenticated user writes posts; edits are gated per-post to the
	// author (or an admin) inside the handlers.
	write := func(fn http.HandlerFunc) http.Handler {
		return r.authn(fn, httpx.RateLimitByUser(httpx.ModerateLimit))
	}

	r.Mux.Handle("POST /blogs", write(h.HandleCreate))
	r.Mux.Handle("PUT /blogs/{id}", write(h.HandleUpdate))
	r.Mux.Handle("DELETE /blogs/{id}", write(h.HandleDelete))
}

func (r *Router) registerEnrollments() {
	h := &EnrollmentsHandler{EnrollmentService: r.EnrollmentService}

	r.Mux.Handle("POST /courses/{id}/enroll",
		r.authn(http.HandlerFunc(h.HandleEnroll),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /courses/{id}/enroll",
		r.authn(http.HandlerFunc(h.HandleUnenroll),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /enrollments",
		r.authn(http.HandlerFunc(h.HandleListMine),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
