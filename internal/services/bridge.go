package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/cache"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/models"
)

// VaultResponse answers a vault request from the autofill client. Data is
// never nil.
type VaultResponse struct {
	Success bool                `json:"success"`
	Data    []models.VaultEntry `json:"data"`
}

// BridgeService implements the two messages the autofill client sends and
// the user-facing handling of a parked save prompt.
type BridgeService interface {
	RequestVault(ctx context.Context) VaultResponse
	PromptSaveCredentials(ctx context.Context, c models.SaveCredentials) error
	PendingSave(ctx context.Context) (*models.SaveCredentials, error)
	ConfirmPendingSave(ctx context.Context) (models.VaultEntry, error)
	DismissPendingSave(ctx context.Context) error
}

type bridgeService struct {
	session KeyHolder
	engine  VaultEngine
	cache   cache.Store
	log     logging.Logger
}

func NewBridgeService(session KeyHolder, engine VaultEngine, c cache.Store, log logging.Logger) BridgeService {
	return &bridgeService{session: session, engine: engine, cache: c, log: log.With("module", "bridge")}
}

// RequestVault serves the cached snapshot. It fails when the session is
// locked or the cache is unreadable, and succeeds with no entries when no
// snapshot has been written yet.
func (b *bridgeService) RequestVault(ctx context.Context) VaultResponse {
	if !b.session.IsUnlocked() {
		return VaultResponse{Success: false, Data: []models.VaultEntry{}}
	}

	var entries []models.VaultEntry
	err := cache.GetJSON(ctx, b.cache, cache.KeyVault, &entries)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return VaultResponse{Success: true, Data: []models.VaultEntry{}}
	case err != nil:
		b.log.Error(ctx, "read vault snapshot", "error", err)
		return VaultResponse{Success: false, Data: []models.VaultEntry{}}
	}

	if entries == nil {
		entries = []models.VaultEntry{}
	}
	return VaultResponse{Success: true, Data: entries}
}

// PromptSaveCredentials parks observed credentials until the user confirms
// or dismisses them. A newer prompt replaces an older one. Prompts are only
// accepted while unlocked, since the parked record holds a plaintext password.
func (b *bridgeService) PromptSaveCredentials(ctx context.Context, c models.SaveCredentials) error {
	if !b.session.IsUnlocked() {
		return common.ErrNotUnlocked
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := cache.SetJSON(ctx, b.cache, cache.KeyPendingSave, c); err != nil {
		return fmt.Errorf("park save prompt: %w", err)
	}
	b.log.Info(ctx, "save prompt received", "website", c.Website)
	return nil
}

// PendingSave returns the parked prompt, or (nil, nil) when there is none.
func (b *bridgeService) PendingSave(ctx context.Context) (*models.SaveCredentials, error) {
	if !b.session.IsUnlocked() {
		return nil, common.ErrNotUnlocked
	}
	var c models.SaveCredentials
	err := cache.GetJSON(ctx, b.cache, cache.KeyPendingSave, &c)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (b *bridgeService) ConfirmPendingSave(ctx context.Context) (models.VaultEntry, error) {
	c, err := b.PendingSave(ctx)
	if err != nil {
		return models.VaultEntry{}, err
	}
	if c == nil {
		return models.VaultEntry{}, common.ErrNotFound
	}

	e, err := b.engine.AddEntry(ctx, c.Draft())
	if err != nil {
		return models.VaultEntry{}, err
	}
	if err := b.cache.Delete(ctx, cache.KeyPendingSave); err != nil {
		return e, fmt.Errorf("drop save prompt: %w", err)
	}
	return e, nil
}

func (b *bridgeService) DismissPendingSave(ctx context.Context) error {
	if !b.session.IsUnlocked() {
		return common.ErrNotUnlocked
	}
	return b.cache.Delete(ctx, cache.KeyPendingSave)
}
