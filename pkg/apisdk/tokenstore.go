package apisdk

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// Mirror is the durable side of a TokenStore. Implementations persist the
// access token so a restarted process can resume its session.
type Mirror interface {
	Load() (string, error)
	Store(token string) error
	Clear() error
}

// TokenStore holds the current access token. Reads are cheap; writes update
// the mirror synchronously before returning, so the in-memory value and the
// durable copy never diverge for longer than a call.
type TokenStore struct {
	mu     sync.RWMutex
	token  string
	mirror Mirror
}

// NewTokenStore creates a store seeded from the mirror. A mirror read failure
// just means starting unauthenticated.
func NewTokenStore(mirror Mirror) *TokenStore {
	s := &TokenStore{mirror: mirror}
	if token, err := mirror.Load(); err == nil {
		s.token = token
	}
	return s
}

// Get returns the current access token, empty when unauthenticated.
func (s *TokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set stores a new access token, mirroring it before returning.
func (s *TokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mirror.Store(token); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Clear drops the token from memory and the mirror.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mirror.Clear(); err != nil {
		return err
	}
	s.token = ""
	return nil
}

// NopMirror is an in-memory-only mirror for tests and ephemeral sessions.
type NopMirror struct{}

func (NopMirror) Load() (string, error) { return "", nil }
func (NopMirror) Store(string) error    { return nil }
func (NopMirror) Clear() error          { return nil }

// FileMirror persists the access token to a single file with 0600 permissions.
type FileMirror struct {
	Path string
}

func (m FileMirror) Load() (string, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (m FileMirror) Store(token string) error {
	return os.WriteFile(m.Path, []byte(token), 0o600)
}

func (m FileMirror) Clear() error {
	err := os.Remove(m.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
