// Package cryptox holds the vault's cryptographic primitives: password-based
// key derivation, HKDF subkeys, AES-GCM field encryption and recovery keys.
package cryptox

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// MinIterations is the lowest PBKDF2 work factor the vault accepts.
	MinIterations = 100_000

	// KeySize is the length of every derived key, suitable for AES-256.
	KeySize = 32
)

// Salt prefixes keep the verification secret and the encryption key in
// separate derivation contexts for the same password and recovery key.
const (
	verifyContext  = "gophvault/verify/v1:"
	encryptContext = "gophvault/encrypt/v1:"
)

// KDF derives key material with PBKDF2-HMAC-SHA256.
type KDF struct {
	Iterations int
}

// DefaultKDF returns a KDF running MinIterations rounds.
func DefaultKDF() KDF {
	return KDF{Iterations: MinIterations}
}

// DeriveKeyMaterial stretches secretInput with the given salt into KeySize
// bytes. The output is deterministic for fixed inputs.
func (k KDF) DeriveKeyMaterial(secretInput, salt string) ([]byte, error) {
	if k.Iterations < MinIterations {
		return nil, fmt.Errorf("%w: %d iterations is below the minimum of %d",
			common.ErrKeyDerivation, k.Iterations, MinIterations)
	}
	return pbkdf2.Key([]byte(secretInput), []byte(salt), k.Iterations, KeySize, sha256.New), nil
}

// DeriveVerificationSecret derives the value stored at setup and compared at
// unlock instead of the password itself.
func (k KDF) DeriveVerificationSecret(password, recoveryKey string) ([]byte, error) {
	return k.DeriveKeyMaterial(password, verifyContext+recoveryKey)
}

// DeriveEncryptionKey derives the AES key protecting credential fields. It
// uses its own salt context so it cannot be computed from the verification
// secret.
func (k KDF) DeriveEncryptionKey(password, recoveryKey string) ([]byte, error) {
	return k.DeriveKeyMaterial(password, encryptContext+recoveryKey)
}

// DeriveSubkey expands master into a KeySize subkey bound to info using
// HKDF-SHA256.
func DeriveSubkey(master []byte, info string) ([]byte, error) {
	if len(master) == 0 {
		return nil, fmt.Errorf("%w: empty master key", common.ErrKeyDerivation)
	}
	out := make([]byte, KeySize)
	r := hkdf.New(sha256.New, master, nil, []byte(info))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyDerivation, err)
	}
	return out, nil
}
