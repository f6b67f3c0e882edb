// Package cryptox holds the cryptographic primitives of the vault: one-way
// PIN digests and AES-GCM sealing for the secure key-value file.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters: 1 pass, 64 MiB, 4 lanes, 32-byte key.
const (
	digestScheme  = "argon2id"
	digestTime    = 1
	digestMemory  = 64 * 1024
	digestThreads = 4
	digestKeyLen  = 32
	saltLen       = 16
)

var ErrMalformedDigest = errors.New("malformed digest")

// HashPin derives a one-way digest of pin using argon2id with a fresh
// random salt. The result is self-describing: "argon2id$<salt>$<hash>"
// with base64 raw-std encoding. The plaintext pin is never stored.
func HashPin(pin string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(pin), salt, digestTime, digestMemory, digestThreads, digestKeyLen)

	return fmt.Sprintf("%s$%s$%s",
		digestScheme,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPin reports whether pin matches the encoded digest. The comparison
// is constant-time; the stored hash is never returned to the caller.
func VerifyPin(pin, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != digestScheme {
		return false, ErrMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, ErrMalformedDigest
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, ErrMalformedDigest
	}

	got := argon2.IDKey([]byte(pin), salt, digestTime, digestMemory, digestThreads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// Seal encrypts plaintext with AES-GCM under key and returns nonce||ciphertext.
// The key must be 16, 24 or 32 bytes.
func Seal(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts data produced by Seal with the same key.
func Open(sealed, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aesgcm.NonceSize() {
		return nil, errors.New("sealed payload too short")
	}
	nonce, ciphertext := sealed[:aesgcm.NonceSize()], sealed[aesgcm.NonceSize():]

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
