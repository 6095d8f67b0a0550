package entries

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/models"
)

// Repository is a durable map of vault entries keyed by ID.
type Repository interface {
	// Put inserts the entry or replaces the stored entry with the same ID.
	Put(ctx context.Context, entry models.VaultEntry) error

	// GetAll returns every entry in insertion order.
	GetAll(ctx context.Context) ([]models.VaultEntry, error)

	// Get returns the entry with the given ID or common.ErrNotFound.
	Get(ctx context.Context, id string) (models.VaultEntry, error)

	// Delete removes the entry with the given ID or returns common.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
