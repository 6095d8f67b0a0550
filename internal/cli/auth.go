package cli

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

// Setup creates the vault on first run and prints the recovery key once.
func (a *App) Setup(ctx context.Context) error {
	first, err := a.session.IsFirstTime(ctx)
	if err != nil {
		return err
	}
	if !first {
		a.println("The vault is already set up. Use 'unlock'.")
		return nil
	}

	identifier, err := a.text("Enter identifier")
	if err != nil {
		return err
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if subtle.ConstantTimeCompare(password, confirm) != 1 {
		return errPasswordMismatch
	}

	recovery, err := a.text("Enter recovery key (empty to generate one)")
	if err != nil {
		return err
	}

	key, err := a.session.Setup(ctx, identifier, string(password), recovery)
	if err != nil {
		return err
	}

	a.identifier = identifier
	a.println("Vault created.")
	a.println("Recovery key:", key)
	a.println("Write it down now. It is required to unlock and is not shown again.")
	return nil
}

// Unlock asks for the identifier, password and recovery key. Any mismatch
// gets the same answer.
func (a *App) Unlock(ctx context.Context) error {
	if a.session.IsUnlocked() {
		a.println("The vault is already unlocked.")
		return nil
	}

	identifier, err := a.text("Enter identifier")
	if err != nil {
		return err
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	recovery, err := a.text("Enter recovery key")
	if err != nil {
		return err
	}

	ok, err := a.session.Unlock(ctx, identifier, string(password), recovery)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Invalid credentials.")
		return nil
	}

	a.identifier = identifier
	a.println("Vault unlocked.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.identifier = ""
	a.println("Vault locked.")
	return nil
}
