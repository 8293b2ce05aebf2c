package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/jwtx"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/slogx"
)

// AuthnMiddleware is the session guard for protected routes. It verifies the
// bearer access token and then re-loads the user record through loader before
// attaching the identity to the request context.
//
// Every rejection is a uniform 401 envelope; callers cannot tell a missing
// token from a malformed or expired one.
func AuthnMiddleware(v jwtx.Verifier, loader IdentityLoader) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeUnauthenticated(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("access token verification failed", "err", err)
				writeUnauthenticated(w)
				return
			}

			if err := claims.ValidateUse(jwtx.TokenUseAccess); err != nil {
				log.Warn("non-access token presented as bearer credential")
				writeUnauthenticated(w)
				return
			}

			// Freshness over a saved round trip: a deleted or demoted account
			// must stop working before its token expires.
			identity, err := loader.LoadIdentity(ctx, claims.Subject)
			if err != nil {
				log.Warn("identity reload failed", "user_id", claims.Subject, "err", err)
				writeUnauthenticated(w)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, identity.ID)
			ctx = context.WithValue(ctx, CtxKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthnMiddleware attaches an identity when a valid bearer token is
// present and falls through anonymously otherwise. Public routes that render
// differently for privileged users (draft visibility) sit behind this; a bad
// token degrades to anonymous instead of a 401.
func OptionalAuthnMiddleware(v jwtx.Verifier, loader IdentityLoader) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil || claims.ValidateUse(jwtx.TokenUseAccess) != nil {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := loader.LoadIdentity(ctx, claims.Subject)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, identity.ID)
			ctx = context.WithValue(ctx, CtxKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteError(w, http.StatusUnauthorized, "authentication required")
}
