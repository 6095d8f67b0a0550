// Package services contains the vault's application services: the
// authentication session, the vault engine, the cache snapshot sync and the
// bridge service answering the autofill client.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/dmitrijs2005/gophvault/internal/repositories/metadata"
	"github.com/dmitrijs2005/gophvault/internal/repositories/repomanager"
)

// KeyHolder gives scoped access to the session encryption key.
type KeyHolder interface {
	IsUnlocked() bool
	// WithKey runs fn with the key. The slice must not be retained.
	WithKey(fn func(key []byte) error) error
}

// AuthSession owns the setup/unlock state machine and the session secret.
//
// States: uninitialized (no user record), locked, unlocked. Only Setup and a
// successful Unlock enter the unlocked state; Logout leaves it.
type AuthSession interface {
	KeyHolder
	IsFirstTime(ctx context.Context) (bool, error)
	Setup(ctx context.Context, identifier, password, recoveryKey string) (string, error)
	Unlock(ctx context.Context, identifier, password, recoveryKey string) (bool, error)
	Logout(ctx context.Context)
	DeriveSubkey(info string) ([]byte, error)
	OnUnlock(fn func(ctx context.Context))
	OnLogout(fn func(ctx context.Context))
}

type authSession struct {
	db  *sql.DB
	rm  repomanager.RepositoryManager
	kdf cryptox.KDF
	log logging.Logger

	mu       sync.RWMutex
	secret   *memguard.Enclave
	onUnlock []func(ctx context.Context)
	onLogout []func(ctx context.Context)
}

func NewAuthSession(db *sql.DB, rm repomanager.RepositoryManager, kdf cryptox.KDF, log logging.Logger) AuthSession {
	return &authSession{db: db, rm: rm, kdf: kdf, log: log.With("module", "auth")}
}

func (a *authSession) IsFirstTime(ctx context.Context) (bool, error) {
	u, err := metadata.LoadUser(ctx, a.rm.Metadata(a.db))
	if err != nil {
		return false, fmt.Errorf("load user record: %w", err)
	}
	return u == nil, nil
}

// Setup stores a new user record and unlocks the session. An empty
// recoveryKey means one is generated. The recovery key in use is returned;
// it is not stored anywhere.
func (a *authSession) Setup(ctx context.Context, identifier, password, recoveryKey string) (string, error) {
	if recoveryKey == "" {
		k, err := cryptox.GenerateRecoveryKey()
		if err != nil {
			return "", err
		}
		recoveryKey = k
	} else if !cryptox.ValidRecoveryKey(recoveryKey) {
		return "", common.ErrInvalidRecoveryKey
	}

	verifier, err := a.kdf.DeriveVerificationSecret(password, recoveryKey)
	if err != nil {
		return "", err
	}
	key, err := a.kdf.DeriveEncryptionKey(password, recoveryKey)
	if err != nil {
		return "", err
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.SaveUser(ctx, a.rm.Metadata(tx), models.VaultUserRecord{
			Identifier:         identifier,
			VerificationSecret: verifier,
		})
	})
	if err != nil {
		common.WipeByteArray(key)
		return "", fmt.Errorf("save user record: %w", err)
	}

	a.open(ctx, key)
	a.log.Info(ctx, "vault initialized")
	return recoveryKey, nil
}

// Unlock reports whether the credentials match the stored record. The
// derivation runs even when there is no record or the identifier differs.
func (a *authSession) Unlock(ctx context.Context, identifier, password, recoveryKey string) (bool, error) {
	u, err := metadata.LoadUser(ctx, a.rm.Metadata(a.db))
	if err != nil {
		return false, fmt.Errorf("load user record: %w", err)
	}

	candidate, err := a.kdf.DeriveVerificationSecret(password, recoveryKey)
	if err != nil {
		return false, err
	}
	defer common.WipeByteArray(candidate)

	if u == nil {
		a.log.Warn(ctx, "unlock attempted before setup")
		return false, nil
	}

	idOK := subtle.ConstantTimeCompare([]byte(u.Identifier), []byte(identifier))
	secretOK := subtle.ConstantTimeCompare(u.VerificationSecret, candidate)
	if idOK&secretOK != 1 {
		a.log.Warn(ctx, "unlock rejected")
		return false, nil
	}

	key, err := a.kdf.DeriveEncryptionKey(password, recoveryKey)
	if err != nil {
		return false, err
	}
	a.open(ctx, key)
	a.log.Info(ctx, "vault unlocked")
	return true, nil
}

// open seals key into the enclave, wiping the slice, and runs unlock hooks.
func (a *authSession) open(ctx context.Context, key []byte) {
	a.mu.Lock()
	a.secret = memguard.NewEnclave(key)
	hooks := append([]func(context.Context){}, a.onUnlock...)
	a.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

func (a *authSession) IsUnlocked() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.secret != nil
}

// Logout drops the session secret and runs logout hooks. Calling it while
// locked only runs the hooks.
func (a *authSession) Logout(ctx context.Context) {
	a.mu.Lock()
	a.secret = nil
	hooks := append([]func(context.Context){}, a.onLogout...)
	a.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
	a.log.Info(ctx, "vault locked")
}

func (a *authSession) WithKey(fn func(key []byte) error) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.secret == nil {
		return common.ErrNotUnlocked
	}
	buf, err := a.secret.Open()
	if err != nil {
		return fmt.Errorf("open session secret: %w", err)
	}
	defer buf.Destroy()

	return fn(buf.Bytes())
}

func (a *authSession) DeriveSubkey(info string) ([]byte, error) {
	var sub []byte
	err := a.WithKey(func(key []byte) error {
		var err error
		sub, err = cryptox.DeriveSubkey(key, info)
		return err
	})
	return sub, err
}

func (a *authSession) OnUnlock(fn func(ctx context.Context)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onUnlock = append(a.onUnlock, fn)
}

func (a *authSession) OnLogout(fn func(ctx context.Context)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onLogout = append(a.onLogout, fn)
}
