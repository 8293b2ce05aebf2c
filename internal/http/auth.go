package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/service"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/httpx"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/slogx"
)

// refreshCookieName is the http-only cookie carrying the refresh token. The
// token never appears in any JSON body; this cookie is its only channel.
const refreshCookieName = "refreshToken"

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	TokenService *service.TokenService
	UserService  *service.UserService
	CookieSecure bool
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// userView is the identity shape returned to clients. The password hash never
// leaves the server.
type userView struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

type sessionResponse struct {
	AccessToken string   `json:"accessToken"`
	User        userView `json:"user"`
}

func viewOf(u domain.User) userView {
	return userView{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
		Avatar:   u.Avatar,
	}
}

// HandleRegister godoc
//
//	@Summary		Register a new account
//	@Description	Creates a student account and starts an authenticated session.
//	@Description	The refresh token is set as an http-only cookie; only the access token appears in the body.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	object	body	registerRequest	true	"fullName, email, password"
//	@Success		201		{object}	httpx.Envelope	"accessToken, user"
//	@Failure		400		{object}	httpx.Envelope
//	@Failure		409		{object}	httpx.Envelope	"email already registered"
//	@Router			/auth/register [post]
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, pair, err := h.TokenService.Register(ctx, req.FullName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "password too short")
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, "full name and a valid email are required")
		default:
			log.Error("registration failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken, pair.RefreshTTL)
	httpx.WriteSuccess(w, http.StatusCreated, sessionResponse{
		AccessToken: pair.AccessToken,
		User:        viewOf(u),
	})
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Verifies credentials and starts a session. Unknown email and wrong
//	@Description	password are indistinguishable in the response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	object	body	loginRequest	true	"email, password"
//	@Success		200		{object}	httpx.Envelope	"accessToken, user"
//	@Failure		401		{object}	httpx.Envelope
//	@Router			/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, pair, err := h.TokenService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken, pair.RefreshTTL)
	httpx.WriteSuccess(w, http.StatusOK, sessionResponse{
		AccessToken: pair.AccessToken,
		User:        viewOf(u),
	})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Clears the refresh cookie. The stateless refresh token itself stays
//	@Description	valid until expiry; logout only removes it from the browser.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope
//	@Router			/auth/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearRefreshCookie(w)
	httpx.WriteMessage(w, http.StatusOK, "logged out")
}

// HandleRefresh godoc
//
//	@Summary		Renew the access token
//	@Description	Exchanges the refresh cookie for a fresh access token. The token is
//	@Description	read from the cookie only, never from the body.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope	"accessToken"
//	@Failure		401	{object}	httpx.Envelope
//	@Router			/auth/refresh-token [post]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	access, err := h.TokenService.Renew(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			// Invalid cookie is useless on future requests too.
			h.clearRefreshCookie(w)
			httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		log.Error("token renewal failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, map[string]string{"accessToken": access})
}

// HandleMe godoc
//
//	@Summary	Current user
//	@Tags		Auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	httpx.Envelope	"id, fullName, email, role, avatar"
//	@Failure	401	{object}	httpx.Envelope
//	@Router		/auth/me [get]
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, userView{
		ID:       identity.ID,
		FullName: identity.FullName,
		Email:    identity.Email,
		Role:     identity.Role,
		Avatar:   identity.Avatar,
	})
}

// HandleUpdateProfile godoc
//
//	@Summary	Update the current user's profile
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	object	body	updateProfileRequest	true	"fullName, avatar"
//	@Success	200		{object}	httpx.Envelope	"updated identity"
//	@Failure	400		{object}	httpx.Envelope
//	@Failure	401		{object}	httpx.Envelope
//	@Router		/auth/me [put]
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.UserService.UpdateProfile(ctx, identity.ID, req.FullName, req.Avatar)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, "full name is required")
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not found")
		default:
			log.Error("profile update failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, viewOf(u))
}

// HandleChangePassword godoc
//
//	@Summary	Change password
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path	string					true	"User id"
//	@Param		body	object	body	changePasswordRequest	true	"currentPassword, newPassword"
//	@Success	200		{object}	httpx.Envelope
//	@Failure	400		{object}	httpx.Envelope	"new password too short"
//	@Failure	401		{object}	httpx.Envelope	"wrong current password"
//	@Failure	403		{object}	httpx.Envelope
//	@Failure	404		{object}	httpx.Envelope
//	@Router		/auth/{id}/password [put]
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, _ := httpx.IdentityFromContext(ctx)
	targetID := r.PathValue("id")

	// Users change their own password; admins may reset anyone's.
	if targetID != identity.ID && identity.Role != domain.RoleAdmin {
		httpx.WriteError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.TokenService.ChangePassword(ctx, targetID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "current password is incorrect")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "new password too short")
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not found")
		default:
			log.Error("password change failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "password updated")
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/auth",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
