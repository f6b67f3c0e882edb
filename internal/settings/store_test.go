package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docusafe/docusafe/internal/common"
	"github.com/docusafe/docusafe/internal/logging"
	"github.com/docusafe/docusafe/internal/models"
	"github.com/docusafe/docusafe/internal/securekv"
)

func newKV(t *testing.T) securekv.Store {
	t.Helper()
	kv, err := securekv.NewFileStore(t.TempDir(), logging.Nop())
	require.NoError(t, err)
	return kv
}

func TestLoadDefaults(t *testing.T) {
	s := New(newKV(t), logging.Nop())

	got := s.Load(context.Background())
	assert.Equal(t, models.DefaultSettings(), got)
	assert.True(t, got.BiometricsEnabled)
	assert.EqualValues(t, 60_000, got.AutoLockTimeoutMs)
}

func TestUpdateMergesAndPersists(t *testing.T) {
	kv := newKV(t)
	s := New(kv, logging.Nop())
	ctx := context.Background()

	off := false
	got, err := s.Update(ctx, Patch{BiometricsEnabled: &off})
	require.NoError(t, err)
	assert.False(t, got.BiometricsEnabled)
	assert.EqualValues(t, 60_000, got.AutoLockTimeoutMs) // untouched

	// a fresh store over the same kv sees the persisted value
	s2 := New(kv, logging.Nop())
	got = s2.Load(ctx)
	assert.False(t, got.BiometricsEnabled)
}

func TestUpdateRejectsNegativeTimeout(t *testing.T) {
	s := New(newKV(t), logging.Nop())

	neg := int64(-1)
	_, err := s.Update(context.Background(), Patch{AutoLockTimeoutMs: &neg})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestLoadMergesOverDefaults(t *testing.T) {
	kv := newKV(t)
	// payload with one known key missing and one unknown key present
	require.NoError(t, kv.Set("settings_json", `{"autoLockTimeout":0,"futureSetting":"x"}`))

	s := New(kv, logging.Nop())
	got := s.Load(context.Background())

	assert.EqualValues(t, 0, got.AutoLockTimeoutMs)
	assert.True(t, got.BiometricsEnabled) // default fills the missing key
}

func TestLoadCorruptPayloadFallsBackToDefaults(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Set("settings_json", `{not json`))

	s := New(kv, logging.Nop())
	assert.Equal(t, models.DefaultSettings(), s.Load(context.Background()))
}

// failingKV accepts reads but refuses writes.
type failingKV struct {
	data map[string]string
}

func (f *failingKV) Get(key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *failingKV) Set(key, value string) error { return errors.New("disk full") }
func (f *failingKV) Delete(key string) error     { return errors.New("disk full") }

func TestUpdateKeepsInMemoryValueOnPersistFailure(t *testing.T) {
	s := New(&failingKV{data: map[string]string{}}, logging.Nop())
	ctx := context.Background()

	ms := int64(5_000)
	got, err := s.Update(ctx, Patch{AutoLockTimeoutMs: &ms})
	require.NoError(t, err) // persist failure is logged, not returned
	assert.EqualValues(t, 5_000, got.AutoLockTimeoutMs)

	// the in-memory state survives for subsequent reads
	assert.EqualValues(t, 5_000, s.Load(ctx).AutoLockTimeoutMs)
}

func TestReset(t *testing.T) {
	kv := newKV(t)
	s := New(kv, logging.Nop())
	ctx := context.Background()

	ms := int64(0)
	_, err := s.Update(ctx, Patch{AutoLockTimeoutMs: &ms})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, models.DefaultSettings(), s.Load(ctx))

	_, ok, err := kv.Get("settings_json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAutoLockDuration(t *testing.T) {
	s := models.Settings{AutoLockTimeoutMs: 1500}
	assert.Equal(t, "1.5s", s.AutoLockDuration().String())
}
