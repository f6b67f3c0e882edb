// Package credentials owns the PIN credential lifecycle. Only a one-way
// digest is ever persisted; the plaintext PIN never leaves this package's
// call stack.
package credentials

import (
	"fmt"

	"github.com/docusafe/docusafe/internal/common"
	"github.com/docusafe/docusafe/internal/cryptox"
	"github.com/docusafe/docusafe/internal/models"
	"github.com/docusafe/docusafe/internal/securekv"
)

const pinHashKey = "pin_hash"

// Store keeps the PIN digest in the secure key-value store.
type Store struct {
	kv securekv.Store
}

// New returns a Store over the given secure key-value store.
func New(kv securekv.Store) *Store {
	return &Store{kv: kv}
}

// IsConfigured reports whether a PIN has been set.
func (s *Store) IsConfigured() (bool, error) {
	_, ok, err := s.kv.Get(pinHashKey)
	if err != nil {
		return false, fmt.Errorf("%w: reading credential: %v", common.ErrCredential, err)
	}
	return ok, nil
}

// Set validates, digests and persists a new PIN, overwriting any previous
// credential in a single key write so there is no window where neither the
// old nor the new credential is configured.
func (s *Store) Set(pin string) error {
	if err := models.ValidatePin(pin); err != nil {
		return err
	}

	encoded, err := cryptox.HashPin(pin)
	if err != nil {
		return fmt.Errorf("%w: digesting pin: %v", common.ErrCredential, err)
	}

	if err := s.kv.Set(pinHashKey, encoded); err != nil {
		return fmt.Errorf("%w: persisting credential: %v", common.ErrCredential, err)
	}
	return nil
}

// Verify reports whether pin matches the stored digest. An unconfigured
// store or a mismatch yields false, not an error; only an internal digest
// failure returns one. The stored digest is never handed to the caller.
func (s *Store) Verify(pin string) (bool, error) {
	encoded, ok, err := s.kv.Get(pinHashKey)
	if err != nil {
		return false, fmt.Errorf("%w: reading credential: %v", common.ErrCredential, err)
	}
	if !ok {
		return false, nil
	}

	match, err := cryptox.VerifyPin(pin, encoded)
	if err != nil {
		return false, fmt.Errorf("%w: comparing digests: %v", common.ErrCredential, err)
	}
	return match, nil
}

// Clear removes the stored credential. Clearing an absent credential is a
// no-op.
func (s *Store) Clear() error {
	if err := s.kv.Delete(pinHashKey); err != nil {
		return fmt.Errorf("%w: clearing credential: %v", common.ErrCredential, err)
	}
	return nil
}
