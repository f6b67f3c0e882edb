package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.NotEmpty(t, c.DataDir)
	assert.Equal(t, "docusafe.db", c.DatabaseFile)
	assert.Equal(t, "info", c.LogLevel)
}

func TestDerivedPaths(t *testing.T) {
	c := Config{DataDir: "/tmp/ds", DatabaseFile: "v.db"}

	assert.Equal(t, filepath.Join("/tmp/ds", "v.db"), c.DatabasePath())
	assert.Equal(t, filepath.Join("/tmp/ds", "blobs"), c.BlobDir())
	assert.Equal(t, filepath.Join("/tmp/ds", "secure"), c.SecureDir())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "docusafe.db", cfg.DatabaseFile)
	assert.Equal(t, "info", cfg.LogLevel)
}
