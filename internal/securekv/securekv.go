// Package securekv provides the secure key-value persistence primitive used
// for the PIN digest and the settings payload. The interface mirrors the
// platform secure-store capability (get/set/delete by key with encryption at
// rest); the file-backed implementation seals the payload with AES-GCM under
// a per-installation device key.
package securekv

// Store is a small durable key-value store with encryption at rest.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value. The
	// overwrite is atomic: a reader never observes a state where neither
	// the old nor the new value is present.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
}
