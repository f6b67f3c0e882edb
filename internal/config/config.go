// Package config holds runtime settings for the DocuSafe CLI. Values are
// layered: defaults first, then a JSON file (if given via -c/-config), then
// command-line flags. Later sources win.
package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime settings.
//
// Fields:
//   - DataDir: root directory for the database, blob storage and secure store.
//   - DatabaseFile: SQLite file name inside DataDir.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DataDir      string
	DatabaseFile string
	LogLevel     string
}

// LoadDefaults populates c with sensible defaults. The data directory
// defaults to the platform user-config dir, falling back to the working
// directory when that cannot be resolved.
func (c *Config) LoadDefaults() {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	c.DataDir = filepath.Join(base, "docusafe")
	c.DatabaseFile = "docusafe.db"
	c.LogLevel = "info"
}

// DatabasePath returns the full path of the SQLite file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// BlobDir returns the managed blob storage directory.
func (c *Config) BlobDir() string {
	return filepath.Join(c.DataDir, "blobs")
}

// SecureDir returns the secure key-value store directory.
func (c *Config) SecureDir() string {
	return filepath.Join(c.DataDir, "secure")
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
