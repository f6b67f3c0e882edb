package models

import "time"

// Settings holds the persisted user preferences. The JSON field names match
// the stored settings payload; unknown keys in a persisted payload are
// ignored and missing keys keep their defaults.
type Settings struct {
	BiometricsEnabled bool  `json:"biometricsEnabled"`
	AutoLockTimeoutMs int64 `json:"autoLockTimeout"`
}

// DefaultSettings returns the first-run preferences: biometrics on,
// one-minute auto-lock.
func DefaultSettings() Settings {
	return Settings{
		BiometricsEnabled: true,
		AutoLockTimeoutMs: 60_000,
	}
}

// AutoLockDuration returns the auto-lock timeout as a time.Duration.
// Zero means lock immediately on backgrounding.
func (s Settings) AutoLockDuration() time.Duration {
	return time.Duration(s.AutoLockTimeoutMs) * time.Millisecond
}
