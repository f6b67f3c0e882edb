// Package common defines shared sentinel errors used across the DocuSafe
// core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrValidation marks malformed input (bad PIN length, negative
	// amount, unknown category). Surfaced to the user immediately,
	// never retried.
	ErrValidation = errors.New("validation error")

	// ErrStorage marks blob I/O failures.
	ErrStorage = errors.New("storage error")

	// ErrRepository marks metadata persistence failures.
	ErrRepository = errors.New("repository error")

	// ErrCredential marks internal digest failures. Rare; fatal to the
	// operation that hit it.
	ErrCredential = errors.New("credential error")

	// ErrNotFound marks a missing record or key.
	ErrNotFound = errors.New("not found")
)
