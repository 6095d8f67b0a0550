// Package common defines shared constants and sentinel errors used across
// GophVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Crypto errors.
	ErrKeyDerivation = errors.New("key derivation failed")
	ErrDecryption    = errors.New("decryption failed")

	// Session errors.
	ErrNotUnlocked = errors.New("vault is locked")

	// Validation errors.
	ErrInvalidEntry       = errors.New("invalid entry")
	ErrInvalidRecoveryKey = errors.New("invalid recovery key")
)
