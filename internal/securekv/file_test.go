package securekv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docusafe/docusafe/internal/logging"
)

func newStore(t *testing.T, dir string) *FileStore {
	t.Helper()
	s, err := NewFileStore(dir, logging.Nop())
	require.NoError(t, err)
	return s
}

func TestSetGetDelete(t *testing.T) {
	s := newStore(t, t.TempDir())

	_, ok, err := s.Get("pin_hash")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("pin_hash", "digest"))

	v, ok, err := s.Get("pin_hash")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "digest", v)

	require.NoError(t, s.Delete("pin_hash"))
	require.NoError(t, s.Delete("pin_hash")) // idempotent

	_, ok, err = s.Get("pin_hash")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	s := newStore(t, dir)
	require.NoError(t, s.Set("settings_json", `{"autoLockTimeout":0}`))

	s2 := newStore(t, dir)
	v, ok, err := s2.Get("settings_json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"autoLockTimeout":0}`, v)
}

func TestPayloadSealedOnDisk(t *testing.T) {
	dir := t.TempDir()

	s := newStore(t, dir)
	require.NoError(t, s.Set("pin_hash", "super-secret-digest"))

	raw, err := os.ReadFile(filepath.Join(dir, storeFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-digest")
}

func TestCorruptPayloadFallsBackToEmpty(t *testing.T) {
	dir := t.TempDir()

	s := newStore(t, dir)
	require.NoError(t, s.Set("pin_hash", "digest"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, storeFileName), []byte("garbage"), 0o600))

	s2 := newStore(t, dir)
	_, ok, err := s2.Get("pin_hash")
	require.NoError(t, err)
	assert.False(t, ok)
}
