package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"docusafe"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestParseJson_OverlaysValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data_dir":"/srv/vault","log_level":"debug"}`), 0o600))

	withArgs(t, "-c", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "/srv/vault", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	// keys absent from the file keep their defaults
	assert.Equal(t, "docusafe.db", cfg.DatabaseFile)
}

func TestParseJson_NoFileIsNoOp(t *testing.T) {
	withArgs(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	want := *cfg

	parseJson(cfg)
	assert.Equal(t, want, *cfg)
}

func TestParseJson_MalformedPanics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o600))

	withArgs(t, "-c", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Panics(t, func() { parseJson(cfg) })
}
