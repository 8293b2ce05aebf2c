package apisdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// DefaultRenewTimeout bounds a single renewal attempt. A renewal that cannot
// settle inside this window counts as failed.
const DefaultRenewTimeout = 10 * time.Second

// State is the session lifecycle state.
type State int

const (
	// StateAnonymous means no login has happened (or a logout has).
	StateAnonymous State = iota
	// StateAuthenticated means the session holds a usable access token.
	StateAuthenticated
	// StateRefreshing means a renewal is in flight.
	StateRefreshing
	// StateExpired means renewal failed; only a new Login leaves this state.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// renewal is the single-flight future all concurrent 401s wait on.
type renewal struct {
	done  chan struct{}
	token string
	err   error
}

// Session is the reauth coordinator. It rides on a Client and transparently
// renews the access token when a request fails with 401, replaying the failed
// request exactly once.
type Session struct {
	client *Client

	// RenewTimeout bounds each renewal attempt; DefaultRenewTimeout when zero.
	RenewTimeout time.Duration

	// OnLogout fires once whenever a failed renewal ends the session. It runs
	// outside the session lock.
	OnLogout func()

	mu       sync.Mutex
	state    State
	inflight *renewal
}

// NewSession creates a coordinator for the given client. If the client's
// token store was seeded from a mirror, the session starts authenticated and
// the first 401 drives a renewal as usual.
func NewSession(client *Client) *Session {
	s := &Session{client: client}
	if client.Store.Get() != "" {
		s.state = StateAuthenticated
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login authenticates with email and password. On success the access token is
// stored and the transport jar captures the refresh cookie.
func (s *Session) Login(ctx context.Context, email, password string) (User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return User{}, err
	}

	resp, err := s.client.do(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return User{}, err
	}

	var payload sessionResponse
	if err := decodeEnvelope(resp, http.StatusOK, &payload); err != nil {
		return User{}, err
	}

	if err := s.client.Store.Set(payload.AccessToken); err != nil {
		return User{}, fmt.Errorf("apisdk: store access token: %w", err)
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.inflight = nil
	s.mu.Unlock()

	return payload.User, nil
}

// Register creates an account and starts an authenticated session, exactly
// like Login.
func (s *Session) Register(ctx context.Context, fullName, email, password string) (User, error) {
	body, err := json.Marshal(map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return User{}, err
	}

	resp, err := s.client.do(ctx, http.MethodPost, "/auth/register", body)
	if err != nil {
		return User{}, err
	}

	var payload sessionResponse
	if err := decodeEnvelope(resp, http.StatusCreated, &payload); err != nil {
		return User{}, err
	}

	if err := s.client.Store.Set(payload.AccessToken); err != nil {
		return User{}, fmt.Errorf("apisdk: store access token: %w", err)
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.inflight = nil
	s.mu.Unlock()

	return payload.User, nil
}

// Logout clears the local session and asks the server to drop the refresh
// cookie. The stateless refresh token itself stays valid until expiry.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.do(ctx, http.MethodPost, "/auth/logout", nil)
	if err == nil {
		drainAndClose(resp)
	}

	if clearErr := s.client.Store.Clear(); clearErr != nil {
		return clearErr
	}

	s.mu.Lock()
	s.state = StateAnonymous
	s.inflight = nil
	s.mu.Unlock()

	return err
}

// Me returns the current user, renewing transparently if needed.
func (s *Session) Me(ctx context.Context) (User, error) {
	var u User
	err := s.Get(ctx, "/auth/me", &u)
	return u, err
}

// UpdateProfile updates the current user's display name and avatar.
func (s *Session) UpdateProfile(ctx context.Context, fullName, avatar string) (User, error) {
	var u User
	err := s.Put(ctx, "/auth/me", map[string]string{
		"fullName": fullName,
		"avatar":   avatar,
	}, &u)
	return u, err
}

// ChangePassword changes the user's own password.
func (s *Session) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return s.Put(ctx, "/auth/"+userID+"/password", body, nil)
}

// Get performs an authenticated GET and decodes the envelope data into out.
func (s *Session) Get(ctx context.Context, path string, out any) error {
	return s.roundTrip(ctx, http.MethodGet, path, nil, http.StatusOK, out)
}

// Post performs an authenticated POST. A 201 is treated as success alongside 200.
func (s *Session) Post(ctx context.Context, path string, in, out any) error {
	body, err := marshalBody(in)
	if err != nil {
		return err
	}

	resp, err := s.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusCreated {
		return decodeEnvelope(resp, http.StatusCreated, out)
	}
	return decodeEnvelope(resp, http.StatusOK, out)
}

// Put performs an authenticated PUT and decodes the envelope data into out.
func (s *Session) Put(ctx context.Context, path string, in, out any) error {
	body, err := marshalBody(in)
	if err != nil {
		return err
	}
	return s.roundTripBody(ctx, http.MethodPut, path, body, http.StatusOK, out)
}

// Delete performs an authenticated DELETE.
func (s *Session) Delete(ctx context.Context, path string) error {
	return s.roundTrip(ctx, http.MethodDelete, path, nil, http.StatusOK, nil)
}

func marshalBody(in any) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("apisdk: encode request body: %w", err)
	}
	return body, nil
}

func (s *Session) roundTrip(ctx context.Context, method, path string, body []byte, expectedStatus int, out any) error {
	return s.roundTripBody(ctx, method, path, body, expectedStatus, out)
}

func (s *Session) roundTripBody(ctx context.Context, method, path string, body []byte, expectedStatus int, out any) error {
	resp, err := s.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, expectedStatus, out)
}

// do dispatches one request through the coordinator. A 401 triggers a renewal
// and one replay; everything else passes through untouched.
func (s *Session) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	resp, err := s.client.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	if _, renewErr := s.renew(ctx); renewErr != nil {
		// Failed closed already; the caller gets the original 401.
		return resp, nil
	}

	// Replay exactly once with the renewed token. A second 401 is returned
	// as-is and must not start another renewal.
	drainAndClose(resp)
	return s.client.do(ctx, method, path, body)
}

// renew coalesces concurrent renewals behind a single in-flight future. The
// caller blocks until the shared renewal settles or its own context ends.
func (s *Session) renew(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state == StateExpired || s.state == StateAnonymous {
		s.mu.Unlock()
		return "", ErrSessionExpired
	}

	r := s.inflight
	if r == nil {
		r = &renewal{done: make(chan struct{})}
		s.inflight = r
		s.state = StateRefreshing
		go s.runRenewal(r)
	}
	s.mu.Unlock()

	select {
	case <-r.done:
		return r.token, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// runRenewal performs the actual renewal, bounded by RenewTimeout. Success
// stores the new token; any failure tears the session down.
func (s *Session) runRenewal(r *renewal) {
	timeout := s.RenewTimeout
	if timeout <= 0 {
		timeout = DefaultRenewTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	token, err := s.client.renewAccessToken(ctx)
	if err == nil {
		err = s.client.Store.Set(token)
	}

	var hook func()
	s.mu.Lock()
	if err != nil {
		_ = s.client.Store.Clear()
		s.state = StateExpired
		hook = s.OnLogout
		r.err = err
	} else {
		s.state = StateAuthenticated
		r.token = token
	}
	s.inflight = nil
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	close(r.done)
}
