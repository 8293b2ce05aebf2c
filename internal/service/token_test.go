package service

import (
	"context"
	"testing"
	"time"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store/drivers/sqlite"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.GenerateSigner()
	require.NoError(t, err)

	return &TokenService{
		Signer:     signer,
		Verifier:   jwtx.NewVerifier(signer.Public(), "test-issuer"),
		Store:      st,
		Issuer:     "test-issuer",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService(t)

	u, pair, err := svc.Register(ctx, "Alice Example", "Alice@Example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "alice@example.com", u.Email)
	require.Equal(t, "student", u.Role)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	t.Run("access token carries identity claims", func(t *testing.T) {
		claims, err := svc.Verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, claims.ValidateUse(jwtx.TokenUseAccess))
		require.Equal(t, u.ID, claims.Subject)
		require.Equal(t, "Alice Example", claims.FullName)
	})

	t.Run("refresh token is marked as refresh", func(t *testing.T) {
		claims, err := svc.Verifier.Verify(pair.RefreshToken)
		require.NoError(t, err)
		require.NoError(t, claims.ValidateUse(jwtx.TokenUseRefresh))
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "Alice Again", "alice@example.com", "secret123")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login with correct password", func(t *testing.T) {
		got, pair, err := svc.Login(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.NotEmpty(t, pair.AccessToken)
	})

	t.Run("login failures are indistinguishable", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService(t)

	t.Run("short password", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "Bob", "bob@example.com", "tiny")
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("missing name", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "  ", "bob@example.com", "secret123")
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "Bob", "not-an-email", "secret123")
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRenew(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService(t)

	u, pair, err := svc.Register(ctx, "Carol", "carol@example.com", "secret123")
	require.NoError(t, err)

	t.Run("valid refresh token yields a new access token", func(t *testing.T) {
		access, err := svc.Renew(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.Verifier.Verify(access)
		require.NoError(t, err)
		require.NoError(t, claims.ValidateUse(jwtx.TokenUseAccess))
		require.Equal(t, u.ID, claims.Subject)
	})

	t.Run("access token is not accepted for renewal", func(t *testing.T) {
		_, err := svc.Renew(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.Renew(ctx, "not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("token from a foreign key is rejected", func(t *testing.T) {
		other, err := jwtx.GenerateSigner()
		require.NoError(t, err)

		forged, err := other.Sign(jwtx.NewRefreshClaims(u.ID, time.Hour, "test-issuer", time.Now()))
		require.NoError(t, err)

		_, err = svc.Renew(ctx, forged)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("deleted account cannot renew", func(t *testing.T) {
		require.NoError(t, svc.Store.Users().DeleteUser(ctx, u.ID))

		_, err := svc.Renew(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestRenewReflectsCurrentRole(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService(t)

	u, pair, err := svc.Register(ctx, "Dave", "dave@example.com", "secret123")
	require.NoError(t, err)

	// Promote the user after the refresh token was issued; the renewed access
	// token must carry the new role.
	require.NoError(t, svc.Store.Users().UpdateRole(ctx, u.ID, "admin"))

	access, err := svc.Renew(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.Verifier.Verify(access)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService(t)

	u, _, err := svc.Register(ctx, "Eve", "eve@example.com", "oldpassword")
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID, "not-it", "newpassword")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user id", func(t *testing.T) {
		err := svc.ChangePassword(ctx, "no-such-user", "oldpassword", "newpassword")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("weak new password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID, "oldpassword", "tiny")
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("successful change", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, u.ID, "oldpassword", "newpassword"))

		_, _, err := svc.Login(ctx, "eve@example.com", "oldpassword")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = svc.Login(ctx, "eve@example.com", "newpassword")
		require.NoError(t, err)
	})
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	require.Equal(t, "learn-go-from-scratch", Slugify("Learn Go: From Scratch!"))
	require.Equal(t, "html-css-pro", Slugify("  HTML & CSS   Pro  "))
	require.Equal(t, "", Slugify("!!!"))
}
