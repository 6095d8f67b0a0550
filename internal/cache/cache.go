// Package cache is the shared key/value area between the vault process and
// the bridge. It holds the decrypted snapshot and the pending save prompt.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	KeyVault       = "vault"
	KeyPendingSave = "_pendingSave"
)

// Store is a byte-oriented cache. Get returns common.ErrNotFound for a
// missing key; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value at key into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode cache[%s]: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache[%s]: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
