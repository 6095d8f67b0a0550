package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// NonceSize is the standard GCM nonce length.
const NonceSize = 12

// Blob is the framing of one encrypted field: a random nonce followed by
// the GCM ciphertext with its authentication tag appended.
type Blob struct {
	IV         []byte
	Ciphertext []byte
}

// String serializes the blob as base64(iv || ciphertext||tag).
func (b Blob) String() string {
	buf := make([]byte, 0, len(b.IV)+len(b.Ciphertext))
	buf = append(buf, b.IV...)
	buf = append(buf, b.Ciphertext...)
	return base64.StdEncoding.EncodeToString(buf)
}

// ParseBlob reverses Blob.String. Only the canonical encoding is accepted:
// no line breaks and zero padding bits. Malformed input is reported as
// common.ErrDecryption since it can never authenticate.
func ParseBlob(s string) (Blob, error) {
	if strings.ContainsAny(s, "\r\n") {
		return Blob{}, fmt.Errorf("%w: malformed blob encoding", common.ErrDecryption)
	}
	data, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return Blob{}, fmt.Errorf("%w: malformed blob encoding", common.ErrDecryption)
	}
	if len(data) <= NonceSize {
		return Blob{}, fmt.Errorf("%w: blob too short", common.ErrDecryption)
	}
	return Blob{IV: data[:NonceSize], Ciphertext: data[NonceSize:]}, nil
}

// Cipher encrypts and decrypts single text fields with AES-256-GCM.
// It is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a KeySize key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("cipher key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create aes block: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce, so encrypting the same
// text twice yields different blobs.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce, err := common.GenerateRandByteArray(NonceSize)
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	ct := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return Blob{IV: nonce, Ciphertext: ct}.String(), nil
}

// Decrypt opens a blob produced by Encrypt. Truncated, corrupted or foreign
// blobs fail with an error matching common.ErrDecryption.
func (c *Cipher) Decrypt(blob string) (string, error) {
	b, err := ParseBlob(blob)
	if err != nil {
		return "", err
	}
	plaintext, err := c.aead.Open(nil, b.IV, b.Ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", common.ErrDecryption)
	}
	return string(plaintext), nil
}
