package cli

import (
	"context"
)

// Pending shows the credentials the autofill client asked to save.
func (a *App) Pending(ctx context.Context) error {
	p, err := a.bridge.PendingSave(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		a.println("No credentials waiting to be saved.")
		return nil
	}
	a.println("Save credentials for", p.Website, "as", p.Identifier+"?")
	a.println("Type 'save' to store them or 'dismiss' to drop them.")
	return nil
}

func (a *App) SavePending(ctx context.Context) error {
	p, err := a.bridge.PendingSave(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		a.println("No credentials waiting to be saved.")
		return nil
	}

	e, err := a.bridge.ConfirmPendingSave(ctx)
	if err != nil {
		return err
	}
	a.println("Saved credentials for", e.Website, "as entry", e.ID)
	return nil
}

func (a *App) DismissPending(ctx context.Context) error {
	if err := a.bridge.DismissPendingSave(ctx); err != nil {
		return err
	}
	a.println("Dismissed.")
	return nil
}
