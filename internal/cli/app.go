package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/services"
)

// App is the vault shell bound to its services.
type App struct {
	session    services.AuthSession
	engine     services.VaultEngine
	bridge     services.BridgeService
	logger     logging.Logger
	reader     *bufio.Reader
	out        io.Writer
	identifier string
}

func NewApp(session services.AuthSession, engine services.VaultEngine, bridge services.BridgeService,
	l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		session: session,
		engine:  engine,
		bridge:  bridge,
		logger:  l.With("module", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run greets the user and reads commands until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	first, err := a.session.IsFirstTime(ctx)
	if err != nil {
		return err
	}
	if first {
		a.println("Welcome to GophVault. Type 'setup' to create your vault.")
	} else {
		a.println("GophVault is locked. Type 'unlock' to open it, 'help' for commands.")
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) isUnlocked() bool {
	return a.session.IsUnlocked()
}

func (a *App) status() string {
	if a.session.IsUnlocked() {
		return a.identifier
	}
	return "locked"
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) text(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

// argOrPrompt returns args[0] or asks for the value.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.text(prompt)
}

// report prints a command failure in user terms.
func (a *App) report(err error) {
	switch {
	case errors.Is(err, common.ErrNotUnlocked):
		a.println("The vault is locked. Use 'unlock' first.")
	case errors.Is(err, common.ErrNotFound):
		a.println("No such entry.")
	case errors.Is(err, common.ErrInvalidEntry), errors.Is(err, common.ErrInvalidRecoveryKey):
		a.println("Error:", err)
	case errors.Is(err, common.ErrDecryption):
		a.println("The entry could not be decrypted.")
	default:
		a.logger.Error(context.Background(), "command failed", "error", err)
		a.println("Error:", err)
	}
}
