package domain

import "time"

// TokenPair is what a successful login issues: the short-lived access token
// returned in the response body and the longer-lived refresh token that only
// ever travels in the http-only cookie.
//
// Both are stateless signed tokens; nothing is persisted server-side. A
// refresh token stays valid until its own expiry even after logout.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}
