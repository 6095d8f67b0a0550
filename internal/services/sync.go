package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/cache"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// SnapshotSync copies the decrypted vault into the cache, where the bridge
// reads it. Entries that fail to decrypt are left out.
type SnapshotSync struct {
	engine VaultEngine
	cache  cache.Store
	log    logging.Logger
}

func NewSnapshotSync(engine VaultEngine, c cache.Store, log logging.Logger) *SnapshotSync {
	return &SnapshotSync{engine: engine, cache: c, log: log.With("module", "sync")}
}

func (s *SnapshotSync) Sync(ctx context.Context) error {
	listing, err := s.engine.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := cache.SetJSON(ctx, s.cache, cache.KeyVault, listing.Entries); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	s.log.Debug(ctx, "snapshot written", "entries", len(listing.Entries), "skipped", len(listing.Failures))
	return nil
}

// Clear drops every plaintext record the session keeps in the cache: the
// vault snapshot and any parked save prompt.
func (s *SnapshotSync) Clear(ctx context.Context) error {
	for _, key := range []string{cache.KeyVault, cache.KeyPendingSave} {
		if err := s.cache.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear cache[%s]: %w", key, err)
		}
	}
	return nil
}

// Hook adapts Sync to the engine and session callbacks, logging failures.
func (s *SnapshotSync) Hook(ctx context.Context) {
	if err := s.Sync(ctx); err != nil {
		s.log.Error(ctx, "snapshot sync failed", "error", err)
	}
}

// ClearHook adapts Clear to the logout callback.
func (s *SnapshotSync) ClearHook(ctx context.Context) {
	if err := s.Clear(ctx); err != nil {
		s.log.Error(ctx, "snapshot clear failed", "error", err)
	}
}
