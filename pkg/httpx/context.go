package httpx

import "context"

// Identity is the resolved user identity attached to authenticated requests.
// It is loaded fresh from storage on every request rather than taken from the
// token claims, so account changes take effect before token expiry.
type Identity struct {
	ID       string
	FullName string
	Email    string
	Role     string
	Avatar   string
}

// IdentityLoader resolves the current identity record for a user id.
// Returning an error means the account no longer exists or cannot be used;
// the request is rejected as unauthenticated.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, userID string) (Identity, error)
}

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyIdentity ctxKey = "identity"
)

// IdentityFromContext returns the identity attached by AuthnMiddleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(Identity)
	return id, ok
}

func roleFromCtx(ctx context.Context) string {
	if id, ok := IdentityFromContext(ctx); ok {
		return id.Role
	}
	return ""
}
