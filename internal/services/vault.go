package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/dmitrijs2005/gophvault/internal/repositories/repomanager"
	"github.com/google/uuid"
)

// Listing is the result of ListEntries. Entries hold plaintext passwords;
// Failures name the entries whose password could not be decrypted.
type Listing struct {
	Entries  []models.VaultEntry
	Failures []models.DecryptFailure
}

// VaultEngine encrypts passwords on the way into the record store and
// decrypts them on the way out. Every method returns common.ErrNotUnlocked
// while the session is locked, without touching the store.
type VaultEngine interface {
	ListEntries(ctx context.Context) (*Listing, error)
	GetEntry(ctx context.Context, id string) (models.VaultEntry, error)
	AddEntry(ctx context.Context, d models.Draft) (models.VaultEntry, error)
	UpdateEntry(ctx context.Context, e models.VaultEntry) (models.VaultEntry, error)
	RemoveEntry(ctx context.Context, id string) error
	// OnChange registers fn to run after every successful write.
	OnChange(fn func(ctx context.Context))
}

type vaultEngine struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	keys     KeyHolder
	log      logging.Logger
	onChange []func(ctx context.Context)
}

func NewVaultEngine(db *sql.DB, rm repomanager.RepositoryManager, keys KeyHolder, log logging.Logger) VaultEngine {
	return &vaultEngine{db: db, rm: rm, keys: keys, log: log.With("module", "vault")}
}

// withCipher runs fn with a cipher bound to the session key.
func (v *vaultEngine) withCipher(fn func(c *cryptox.Cipher) error) error {
	return v.keys.WithKey(func(key []byte) error {
		c, err := cryptox.NewCipher(key)
		if err != nil {
			return err
		}
		return fn(c)
	})
}

func (v *vaultEngine) ListEntries(ctx context.Context) (*Listing, error) {
	res := &Listing{Entries: make([]models.VaultEntry, 0)}

	err := v.withCipher(func(c *cryptox.Cipher) error {
		rows, err := v.rm.Entries(v.db).GetAll(ctx)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}

		for _, row := range rows {
			plain, err := c.Decrypt(row.Password)
			if err != nil {
				v.log.Warn(ctx, "entry could not be decrypted", "entry_id", row.ID, "error", err)
				res.Failures = append(res.Failures, models.DecryptFailure{
					ID:         row.ID,
					Website:    row.Website,
					Identifier: row.Identifier,
					Err:        err,
				})
				continue
			}
			row.Password = plain
			res.Entries = append(res.Entries, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (v *vaultEngine) GetEntry(ctx context.Context, id string) (models.VaultEntry, error) {
	var out models.VaultEntry
	err := v.withCipher(func(c *cryptox.Cipher) error {
		row, err := v.rm.Entries(v.db).Get(ctx, id)
		if err != nil {
			return err
		}
		plain, err := c.Decrypt(row.Password)
		if err != nil {
			return fmt.Errorf("entry %s: %w", id, err)
		}
		row.Password = plain
		out = row
		return nil
	})
	return out, err
}

func (v *vaultEngine) AddEntry(ctx context.Context, d models.Draft) (models.VaultEntry, error) {
	if !v.unlocked() {
		return models.VaultEntry{}, common.ErrNotUnlocked
	}
	if err := d.Validate(); err != nil {
		return models.VaultEntry{}, err
	}

	e := d.Entry(uuid.NewString())
	err := v.withCipher(func(c *cryptox.Cipher) error {
		blob, err := c.Encrypt(e.Password)
		if err != nil {
			return err
		}
		stored := e
		stored.Password = blob
		return v.rm.Entries(v.db).Put(ctx, stored)
	})
	if err != nil {
		return models.VaultEntry{}, err
	}

	v.log.Info(ctx, "entry added", "entry_id", e.ID)
	v.changed(ctx)
	return e, nil
}

// UpdateEntry replaces every field of an existing entry and re-encrypts the
// password.
func (v *vaultEngine) UpdateEntry(ctx context.Context, e models.VaultEntry) (models.VaultEntry, error) {
	if !v.unlocked() {
		return models.VaultEntry{}, common.ErrNotUnlocked
	}
	if err := e.Draft().Validate(); err != nil {
		return models.VaultEntry{}, err
	}
	e = e.Draft().Entry(e.ID)

	err := v.withCipher(func(c *cryptox.Cipher) error {
		blob, err := c.Encrypt(e.Password)
		if err != nil {
			return err
		}
		stored := e
		stored.Password = blob

		return dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := v.rm.Entries(tx)
			if _, err := repo.Get(ctx, e.ID); err != nil {
				return err
			}
			return repo.Put(ctx, stored)
		})
	})
	if err != nil {
		return models.VaultEntry{}, err
	}

	v.log.Info(ctx, "entry updated", "entry_id", e.ID)
	v.changed(ctx)
	return e, nil
}

func (v *vaultEngine) RemoveEntry(ctx context.Context, id string) error {
	if !v.unlocked() {
		return common.ErrNotUnlocked
	}
	if err := v.rm.Entries(v.db).Delete(ctx, id); err != nil {
		return err
	}

	v.log.Info(ctx, "entry removed", "entry_id", id)
	v.changed(ctx)
	return nil
}

func (v *vaultEngine) OnChange(fn func(ctx context.Context)) {
	v.onChange = append(v.onChange, fn)
}

func (v *vaultEngine) unlocked() bool {
	return v.keys.IsUnlocked()
}

func (v *vaultEngine) changed(ctx context.Context) {
	for _, fn := range v.onChange {
		fn(ctx)
	}
}
