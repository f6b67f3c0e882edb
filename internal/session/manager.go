// Package session implements the lock state machine gating access to the
// vault: onboarding, PIN setup, locked and unlocked states, driven by the
// credential store, the settings store and the host's foreground/background
// lifecycle signal.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/docusafe/docusafe/internal/credentials"
	"github.com/docusafe/docusafe/internal/logging"
	"github.com/docusafe/docusafe/internal/settings"
)

// State is the current position in the session state machine.
type State string

const (
	StateOnboarding       State = "onboarding"
	StatePinSetupRequired State = "pin_setup_required"
	StateLocked           State = "locked"
	StateUnlocked         State = "unlocked"
)

// ErrInvalidTransition is returned when an operation is not legal in the
// current state.
var ErrInvalidTransition = errors.New("invalid session transition")

// Snapshot is the derived, in-memory session view. Never persisted.
type Snapshot struct {
	OnboardingComplete bool
	PinConfigured      bool
	Unlocked           bool
}

// DataWiper clears the document metadata and blob stores as part of the
// data-wipe flow. The document service satisfies this.
type DataWiper interface {
	WipeAll(ctx context.Context) error
}

// Manager is the session state machine. All methods are safe for
// concurrent use; the auto-lock timer is the one genuinely concurrent
// element and is always cancelled before being re-armed.
type Manager struct {
	mu        sync.Mutex
	state     State
	creds     *credentials.Store
	settings  *settings.Store
	bio       Biometrics
	wiper     DataWiper
	log       logging.Logger
	lockTimer *time.Timer
}

// NewManager builds a Manager and derives the initial state from the
// credential store: a configured PIN means onboarding already happened, so
// the session starts locked; otherwise it starts at onboarding.
func NewManager(creds *credentials.Store, st *settings.Store, bio Biometrics, wiper DataWiper, log logging.Logger) *Manager {
	m := &Manager{
		state:    StateOnboarding,
		creds:    creds,
		settings: st,
		bio:      bio,
		wiper:    wiper,
		log:      log,
	}

	configured, err := creds.IsConfigured()
	if err != nil {
		log.Warn(context.Background(), "could not probe credential store, starting at onboarding", "error", err)
		return m
	}
	if configured {
		m.state = StateLocked
	}
	return m
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the derived session flags.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		OnboardingComplete: m.state != StateOnboarding,
		PinConfigured:      m.state == StateLocked || m.state == StateUnlocked,
		Unlocked:           m.state == StateUnlocked,
	}
}

// CompleteOnboarding moves from onboarding to PIN setup.
func (m *Manager) CompleteOnboarding() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateOnboarding {
		return fmt.Errorf("%w: complete onboarding from %s", ErrInvalidTransition, m.state)
	}
	m.state = StatePinSetupRequired
	return nil
}

// SetupPin stores the first credential and unlocks the session: setting up
// a PIN implies the user is present and authenticated.
func (m *Manager) SetupPin(ctx context.Context, pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePinSetupRequired {
		return fmt.Errorf("%w: pin setup from %s", ErrInvalidTransition, m.state)
	}
	if err := m.creds.Set(pin); err != nil {
		return err
	}

	m.state = StateUnlocked
	m.log.Info(ctx, "pin configured, session unlocked")
	return nil
}

// UnlockWithPin verifies the PIN against the credential store and unlocks
// on a match. A mismatch leaves the session locked and returns false.
func (m *Manager) UnlockWithPin(ctx context.Context, pin string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateLocked {
		return false, fmt.Errorf("%w: unlock from %s", ErrInvalidTransition, m.state)
	}

	ok, err := m.creds.Verify(pin)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	m.cancelLockTimerLocked()
	m.state = StateUnlocked
	m.log.Info(ctx, "session unlocked with pin")
	return true, nil
}

// UnlockWithBiometrics runs the biometric sub-protocol: settings toggle,
// hardware presence, enrollment, then the platform challenge. Each failing
// check short-circuits with its own reason so the caller can fall back to
// PIN entry silently where appropriate.
func (m *Manager) UnlockWithBiometrics(ctx context.Context) (BiometricResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateLocked {
		return BiometricResult{}, fmt.Errorf("%w: unlock from %s", ErrInvalidTransition, m.state)
	}

	if !m.settings.Load(ctx).BiometricsEnabled {
		return BiometricResult{Reason: ReasonDisabled}, nil
	}
	if !m.bio.HardwareAvailable(ctx) {
		return BiometricResult{Reason: ReasonHardwareNotAvailable}, nil
	}
	if !m.bio.Enrolled(ctx) {
		return BiometricResult{Reason: ReasonNotEnrolled}, nil
	}

	ok, err := m.bio.Authenticate(ctx)
	if err != nil {
		return BiometricResult{}, fmt.Errorf("biometric challenge: %w", err)
	}
	if !ok {
		return BiometricResult{Reason: ReasonAuthenticationFailed}, nil
	}

	m.cancelLockTimerLocked()
	m.state = StateUnlocked
	m.log.Info(ctx, "session unlocked with biometrics")
	return BiometricResult{Success: true}, nil
}

// Lock transitions to locked immediately. Locking an already locked (or
// not yet configured) session is a no-op.
func (m *Manager) Lock(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockLocked(ctx)
}

func (m *Manager) lockLocked(ctx context.Context) {
	m.cancelLockTimerLocked()
	if m.state == StateUnlocked {
		m.state = StateLocked
		m.log.Info(ctx, "session locked")
	}
}

// OnBackground handles the host moving to the background: with a zero
// timeout the session locks immediately, otherwise a cancellable timer is
// armed. Arming always cancels any previously armed timer so the timer
// never fires twice.
func (m *Manager) OnBackground(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateUnlocked {
		return
	}

	timeout := m.settings.Load(ctx).AutoLockDuration()
	if timeout == 0 {
		m.lockLocked(ctx)
		return
	}

	m.cancelLockTimerLocked()
	m.lockTimer = time.AfterFunc(timeout, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.lockTimer = nil
		if m.state == StateUnlocked {
			m.state = StateLocked
			m.log.Info(context.Background(), "session auto-locked", "timeout", timeout)
		}
	})
}

// OnForeground cancels a pending auto-lock: the user came back before the
// timer fired.
func (m *Manager) OnForeground(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLockTimerLocked()
}

func (m *Manager) cancelLockTimerLocked() {
	if m.lockTimer != nil {
		m.lockTimer.Stop()
		m.lockTimer = nil
	}
}

// Wipe is the explicit data-wipe flow: the session drops to onboarding
// first, then the credential, document/blob and settings stores are
// cleared. The ordering guarantees a partial failure can never leave the
// session unlocked with no credential. The first error is reported after
// all steps have been attempted.
func (m *Manager) Wipe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLockTimerLocked()
	m.state = StateOnboarding

	var firstErr error
	if err := m.creds.Clear(); err != nil {
		firstErr = err
		m.log.Error(ctx, "wipe: clearing credential failed", "error", err)
	}
	if err := m.wiper.WipeAll(ctx); err != nil {
		if firstErr == nil {
			firstErr = err
		}
		m.log.Error(ctx, "wipe: clearing documents failed", "error", err)
	}
	if err := m.settings.Reset(ctx); err != nil {
		if firstErr == nil {
			firstErr = err
		}
		m.log.Error(ctx, "wipe: resetting settings failed", "error", err)
	}

	if firstErr == nil {
		m.log.Info(ctx, "data wipe complete")
	}
	return firstErr
}
