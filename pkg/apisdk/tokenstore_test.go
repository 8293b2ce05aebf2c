package apisdk

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenStore(t *testing.T) {
	t.Parallel()

	t.Run("get is idempotent", func(t *testing.T) {
		store := NewTokenStore(NopMirror{})
		require.NoError(t, store.Set("token-a"))
		require.Equal(t, "token-a", store.Get())
		require.Equal(t, "token-a", store.Get())
	})

	t.Run("clear empties the store", func(t *testing.T) {
		store := NewTokenStore(NopMirror{})
		require.NoError(t, store.Set("token-a"))
		require.NoError(t, store.Clear())
		require.Empty(t, store.Get())
	})

	t.Run("mirror failure blocks the write", func(t *testing.T) {
		store := NewTokenStore(failingMirror{})
		require.Error(t, store.Set("token-a"))
		require.Empty(t, store.Get())
	})
}

func TestFileMirror(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token")
	mirror := FileMirror{Path: path}

	t.Run("store then load round trip", func(t *testing.T) {
		require.NoError(t, mirror.Store("persisted-token"))

		got, err := mirror.Load()
		require.NoError(t, err)
		require.Equal(t, "persisted-token", got)
	})

	t.Run("new store seeds from mirror", func(t *testing.T) {
		store := NewTokenStore(mirror)
		require.Equal(t, "persisted-token", store.Get())
	})

	t.Run("clear removes the file and tolerates repeats", func(t *testing.T) {
		require.NoError(t, mirror.Clear())
		require.NoError(t, mirror.Clear())

		store := NewTokenStore(mirror)
		require.Empty(t, store.Get())
	})
}

type failingMirror struct{}

func (failingMirror) Load() (string, error) { return "", nil }
func (failingMirror) Store(string) error    { return errors.New("disk full") }
func (failingMirror) Clear() error          { return nil }
