// Package settings persists user preferences in the secure key-value store
// with safe defaults: a missing or corrupt payload degrades to defaults
// rather than failing the caller.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/docusafe/docusafe/internal/common"
	"github.com/docusafe/docusafe/internal/logging"
	"github.com/docusafe/docusafe/internal/models"
	"github.com/docusafe/docusafe/internal/securekv"
)

const settingsKey = "settings_json"

// Patch holds a partial settings update; nil fields keep their current
// value.
type Patch struct {
	BiometricsEnabled *bool
	AutoLockTimeoutMs *int64
}

// Store caches the current settings in memory and mirrors them to the
// secure key-value store. A persist failure keeps the in-memory value so
// the session stays usable; the failure is logged, and the next successful
// update re-syncs the payload.
type Store struct {
	mu     sync.Mutex
	kv     securekv.Store
	log    logging.Logger
	cur    models.Settings
	loaded bool
}

// New returns a Store over the given secure key-value store.
func New(kv securekv.Store, log logging.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Load returns the persisted settings merged over defaults: missing keys
// keep their default, unknown persisted keys are ignored. A corrupt payload
// falls back entirely to defaults.
func (s *Store) Load(ctx context.Context) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) models.Settings {
	if s.loaded {
		return s.cur
	}

	s.cur = models.DefaultSettings()
	s.loaded = true

	raw, ok, err := s.kv.Get(settingsKey)
	if err != nil {
		s.log.Warn(ctx, "failed to read settings, using defaults", "error", err)
		return s.cur
	}
	if !ok {
		return s.cur
	}

	// unmarshalling over the defaults struct gives merge-over-defaults
	// semantics for free
	merged := models.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		s.log.Warn(ctx, "corrupt settings payload, using defaults", "error", err)
		return s.cur
	}
	if merged.AutoLockTimeoutMs < 0 {
		s.log.Warn(ctx, "negative auto-lock timeout in payload, using default")
		merged.AutoLockTimeoutMs = models.DefaultSettings().AutoLockTimeoutMs
	}

	s.cur = merged
	return s.cur
}

// Update merges patch over the current settings, persists the result and
// returns it. Persistence failures do not roll back the in-memory value.
func (s *Store) Update(ctx context.Context, patch Patch) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.loadLocked(ctx)
	if patch.BiometricsEnabled != nil {
		merged.BiometricsEnabled = *patch.BiometricsEnabled
	}
	if patch.AutoLockTimeoutMs != nil {
		if *patch.AutoLockTimeoutMs < 0 {
			return merged, fmt.Errorf("%w: auto-lock timeout must be >= 0", common.ErrValidation)
		}
		merged.AutoLockTimeoutMs = *patch.AutoLockTimeoutMs
	}

	s.cur = merged

	raw, err := json.Marshal(merged)
	if err != nil {
		s.log.Error(ctx, "failed to encode settings", "error", err)
		return merged, nil
	}
	if err := s.kv.Set(settingsKey, string(raw)); err != nil {
		s.log.Warn(ctx, "failed to persist settings, keeping in-memory value", "error", err)
	}
	return merged, nil
}

// Reset removes the persisted payload and reverts to defaults.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = models.DefaultSettings()
	s.loaded = true

	if err := s.kv.Delete(settingsKey); err != nil {
		return fmt.Errorf("resetting settings: %w", err)
	}
	return nil
}
