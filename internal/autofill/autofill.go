// Package autofill is the page-side client: it asks the vault for its
// entries, picks the credentials for a domain and forwards submitted logins
// for saving.
package autofill

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
	"github.com/dmitrijs2005/gophvault/internal/matcher"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/dmitrijs2005/gophvault/internal/services"
)

// ErrVaultUnavailable means the vault answered but reported failure, which
// happens while it is locked.
var ErrVaultUnavailable = errors.New("vault is locked or unavailable")

// ErrNoMatch means no stored entry matches the domain.
var ErrNoMatch = errors.New("no matching credentials")

// VaultClient is the bridge client surface used here.
type VaultClient interface {
	RequestVault(ctx context.Context) (services.VaultResponse, error)
	PromptSaveCredentials(ctx context.Context, c models.SaveCredentials) error
}

// Options select what a run does.
type Options struct {
	Domain     string
	All        bool
	Save       bool
	Website    string
	Identifier string
}

// ParseOptions reads the autofill flags from args, ignoring config flags.
func ParseOptions(args []string) (Options, error) {
	var o Options
	fs := flag.NewFlagSet("autofill", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Domain, "domain", "", "domain of the current page")
	fs.BoolVar(&o.All, "all", false, "print every matching entry")
	fs.BoolVar(&o.Save, "save", false, "offer credentials for saving")
	fs.StringVar(&o.Website, "website", "", "website of the submitted form")
	fs.StringVar(&o.Identifier, "identifier", "", "identifier of the submitted form")

	filtered := flagx.Filter(args, []string{"-domain", "-website", "-identifier"}, []string{"-all", "-save"})
	if err := fs.Parse(filtered); err != nil {
		return Options{}, err
	}
	if o.Save == (o.Domain != "") {
		return Options{}, errors.New("use either -domain or -save")
	}
	return o, nil
}

// Fill prints the credentials matching domain to w: the first match, or
// all of them when all is set.
func Fill(ctx context.Context, c VaultClient, domain string, all bool, w io.Writer) error {
	resp, err := c.RequestVault(ctx)
	if err != nil {
		return err
	}
	if !resp.Success {
		return ErrVaultUnavailable
	}

	var found []models.VaultEntry
	if all {
		found = matcher.MatchAll(resp.Data, domain)
	} else if e, ok := matcher.Match(resp.Data, domain); ok {
		found = []models.VaultEntry{e}
	}
	if len(found) == 0 {
		return ErrNoMatch
	}

	for _, e := range found {
		fmt.Fprintf(w, "website=%s identifier=%s password=%s\n", e.Website, e.Identifier, e.Password)
	}
	return nil
}

// Save forwards submitted credentials; the vault user confirms them later.
func Save(ctx context.Context, c VaultClient, creds models.SaveCredentials, w io.Writer) error {
	if err := c.PromptSaveCredentials(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintln(w, "Sent to the vault. Run 'pending' in the vault shell to review.")
	return nil
}
