package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/cryptox"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/idx"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/jwtx"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrEmailTaken         = errors.New("email_taken")
	ErrWeakPassword       = errors.New("weak_password")
	ErrInvalidInput       = errors.New("invalid_input")
)

// MinPasswordLength is the minimum accepted password length at registration
// and password change.
const MinPasswordLength = 6

// TokenService issues and renews the platform's stateless token pairs.
//
// Both the access and refresh tokens are signed JWTs distinguished by their
// token_use claim. Nothing is persisted per session: renewal trusts the
// refresh token's signature and expiry alone, and there is no rotation or
// revocation list.
type TokenService struct {
	Signer     *jwtx.Signer
	Verifier   jwtx.Verifier
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Register creates a new student account and immediately issues a token pair
// so the client lands in an authenticated session.
func (s *TokenService) Register(ctx context.Context, fullName, email, password string) (domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)
	if fullName == "" || email == "" || !strings.Contains(email, "@") {
		return domain.User{}, nil, ErrInvalidInput
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, nil, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, nil, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, nil, ErrEmailTaken
		}
		return domain.User{}, nil, err
	}

	pair, err := s.issuePair(u, time.Now())
	if err != nil {
		return domain.User{}, nil, err
	}

	l.Info("user registered", slog.String("user_id", u.ID))
	return u, pair, nil
}

// Login verifies the email/password pair and issues tokens.
//
// Unknown email and wrong password both come back as ErrInvalidCredentials so
// the response does not leak which accounts exist.
func (s *TokenService) Login(ctx context.Context, email, password string) (domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, nil, ErrInvalidCredentials
		}
		return domain.User{}, nil, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login password verification failed", slog.String("user_id", u.ID))
		return domain.User{}, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(u, time.Now())
	if err != nil {
		return domain.User{}, nil, err
	}

	return u, pair, nil
}

// Renew exchanges a valid refresh token for a fresh access token.
//
// The subject is re-resolved from storage so the new token reflects the
// current role and profile, and a deleted account cannot keep renewing. Any
// failure collapses into ErrInvalidRefresh: a renewal caller learns nothing
// beyond "log in again".
func (s *TokenService) Renew(ctx context.Context, refreshToken string) (string, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		return "", ErrInvalidRefresh
	}
	if err := claims.ValidateUse(jwtx.TokenUseRefresh); err != nil {
		l.Info("renewal attempted with a non-refresh token", slog.String("sub", claims.Subject))
		return "", ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidRefresh
		}
		return "", err
	}

	return s.signAccess(u, time.Now())
}

// ChangePassword verifies the current password before swapping in the new
// hash. Outstanding tokens stay valid until expiry; the stateless scheme has
// nothing to revoke.
func (s *TokenService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
}

func (s *TokenService) issuePair(u domain.User, now time.Time) (*domain.TokenPair, error) {
	access, err := s.signAccess(u, now)
	if err != nil {
		return nil, err
	}

	refreshClaims := jwtx.NewRefreshClaims(u.ID, s.RefreshTTL, s.Issuer, now)
	refresh, err := s.Signer.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    s.AccessTTL,
		RefreshTTL:   s.RefreshTTL,
	}, nil
}

func (s *TokenService) signAccess(u domain.User, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		u.ID,       // subject
		u.Role,     // role at issue time
		u.FullName, // display name
		u.Email,    // login email
		u.Avatar,   // avatar URL
		s.AccessTTL,
		s.Issuer,
		now,
	)
	return s.Signer.Sign(claims)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
