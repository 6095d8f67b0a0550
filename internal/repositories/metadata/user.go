package metadata

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/models"
)

const (
	KeyIdentifier = "identifier"
	KeyVerifier   = "verifier"
)

// LoadUser reads the vault user record. It returns (nil, nil) when setup has
// not happened yet or the record is incomplete.
func LoadUser(ctx context.Context, r Repository) (*models.VaultUserRecord, error) {
	identifier, err := r.Get(ctx, KeyIdentifier)
	if err != nil {
		return nil, err
	}
	verifier, err := r.Get(ctx, KeyVerifier)
	if err != nil {
		return nil, err
	}
	if identifier == nil || len(verifier) == 0 {
		return nil, nil
	}
	return &models.VaultUserRecord{Identifier: string(identifier), VerificationSecret: verifier}, nil
}

// SaveUser writes both fields of the record. Run it inside a transaction so
// a half-written record never becomes visible.
func SaveUser(ctx context.Context, r Repository, u models.VaultUserRecord) error {
	if err := r.Set(ctx, KeyIdentifier, []byte(u.Identifier)); err != nil {
		return fmt.Errorf("save identifier: %w", err)
	}
	if err := r.Set(ctx, KeyVerifier, u.VerificationSecret); err != nil {
		return fmt.Errorf("save verifier: %w", err)
	}
	return nil
}
