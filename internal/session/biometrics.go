package session

import "context"

// Biometrics is the platform biometric-hardware capability: a hardware
// presence check, an enrollment check, and the challenge itself.
type Biometrics interface {
	// HardwareAvailable reports whether the device has biometric hardware.
	HardwareAvailable(ctx context.Context) bool

	// Enrolled reports whether the user has enrolled biometrics.
	Enrolled(ctx context.Context) bool

	// Authenticate runs the platform challenge and reports success.
	// The error is reserved for platform failures, not rejections.
	Authenticate(ctx context.Context) (bool, error)
}

// BiometricReason distinguishes the expected non-error outcomes of a
// biometric attempt so the caller can fall back to PIN entry without
// alarming the user: missing hardware or enrollment are not user errors.
type BiometricReason string

const (
	ReasonHardwareNotAvailable BiometricReason = "hardware_not_available"
	ReasonNotEnrolled          BiometricReason = "biometrics_not_enrolled"
	ReasonAuthenticationFailed BiometricReason = "authentication_failed"
	ReasonDisabled             BiometricReason = "biometrics_disabled"
)

// BiometricResult is the typed outcome of an unlock-with-biometrics
// attempt. Reason is empty on success.
type BiometricResult struct {
	Success bool
	Reason  BiometricReason
}

// NoBiometrics is a Biometrics implementation for hosts without biometric
// hardware.
type NoBiometrics struct{}

func (NoBiometrics) HardwareAvailable(ctx context.Context) bool     { return false }
func (NoBiometrics) Enrolled(ctx context.Context) bool              { return false }
func (NoBiometrics) Authenticate(ctx context.Context) (bool, error) { return false, nil }
