package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens stay short so a stolen one has a small
// window; refresh tokens trade that off for not forcing daily logins.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token use values carried in the "token_use" claim. A refresh token must
// never be accepted where an access token is expected, and vice versa.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// Claims are the identity claims embedded in platform tokens.
//
// Access tokens carry the display claims so the web client can render the
// current user without an extra round trip; protected routes still re-load
// the user record server-side, so these are presentation hints, not the
// source of truth.
type Claims struct {
	jwt.RegisteredClaims

	// TokenUse distinguishes access from refresh tokens ("access"/"refresh").
	TokenUse string `json:"token_use,omitempty"`

	// Role is the user's role at issue time ("admin" or "student").
	Role string `json:"role,omitempty"`

	// FullName is the user's display name.
	FullName string `json:"full_name,omitempty"`

	// Email is the user's login email.
	Email string `json:"email,omitempty"`

	// Avatar is an optional avatar URL.
	Avatar string `json:"avatar,omitempty"`
}

// NewAccessClaims builds claims for a short-lived access token.
func NewAccessClaims(
	subject, role, fullName, email, avatar string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		TokenUse:         TokenUseAccess,
		Role:             role,
		FullName:         fullName,
		Email:            email,
		Avatar:           avatar,
	}
}

// NewRefreshClaims builds claims for a longer-lived refresh token. Refresh
// tokens carry only the subject; identity is re-resolved at renewal time.
func NewRefreshClaims(subject string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		TokenUse:         TokenUseRefresh,
	}
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer matches the expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used before
// it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateUse checks the "token_use" claim matches the expected kind.
func (c *Claims) ValidateUse(expected string) error {
	if c.TokenUse != expected {
		return ErrWrongTokenUse
	}
	return nil
}
