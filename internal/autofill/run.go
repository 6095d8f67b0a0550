package autofill

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/bridge"
	"github.com/dmitrijs2005/gophvault/internal/config"
	"github.com/dmitrijs2005/gophvault/internal/filex"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"golang.org/x/term"
)

const callTimeout = 5 * time.Second

// readPassword is replaced in tests.
var readPassword = func() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	return string(b), err
}

// dial is replaced in tests.
var dial = func(target, token string) (VaultClient, io.Closer, error) {
	c, err := bridge.NewClient(target, token)
	if err != nil {
		return nil, nil, err
	}
	return c, c, nil
}

// Run connects to the vault bridge with the published token and performs
// the action selected by args.
func Run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	opts, err := ParseOptions(args)
	if err != nil {
		return err
	}

	token, err := filex.ReadTrimmed(cfg.BridgeTokenPath)
	if err != nil {
		return fmt.Errorf("read bridge token (is the vault unlocked?): %w", err)
	}

	client, closer, err := dial(cfg.BridgeAddr, token)
	if err != nil {
		return err
	}
	defer closer.Close()

	if !opts.Save {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()
		return Fill(ctx, client, opts.Domain, opts.All, out)
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword()
	fmt.Fprintln(out)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	creds := models.SaveCredentials{Website: opts.Website, Identifier: opts.Identifier, Password: password}
	return Save(ctx, client, creds, out)
}
