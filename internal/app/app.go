// Package app wires the vault process: record store, cache, services, the
// bridge server and the interactive shell.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/awnumar/memguard"
	"github.com/dmitrijs2005/gophvault/internal/bridge"
	"github.com/dmitrijs2005/gophvault/internal/cache"
	"github.com/dmitrijs2005/gophvault/internal/cli"
	"github.com/dmitrijs2005/gophvault/internal/config"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophvault/internal/services"
	"golang.org/x/time/rate"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	cache     cache.Store
	session   services.AuthSession
	shell     *cli.App
	bridgeSvc services.BridgeService
	server    *bridge.Server
	publisher *bridge.TokenPublisher
	once      sync.Once
}

// NewApp opens the store and cache and builds the services. Logs go to
// logOut so they do not interleave with the shell on stdout.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	logger, err := logging.New(c.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	repomanager.SetLogger(logger)
	db, rm, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var store cache.Store = cache.NewMemoryStore()
	if c.CachePath != "" {
		bs, err := cache.OpenBoltStore(c.CachePath)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		store = bs
	}

	session := services.NewAuthSession(db, rm, c.KDF(), logger)
	engine := services.NewVaultEngine(db, rm, session, logger)
	snapshot := services.NewSnapshotSync(engine, store, logger)
	bridgeSvc := services.NewBridgeService(session, engine, store, logger)
	publisher := bridge.NewTokenPublisher(c.BridgeTokenPath, c.BridgeTokenTTL, session, logger)

	// A crashed run can leave plaintext records in a file-backed cache.
	if err := snapshot.Clear(ctx); err != nil {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
		_ = db.Close()
		return nil, err
	}

	engine.OnChange(snapshot.Hook)
	session.OnUnlock(snapshot.Hook)
	session.OnUnlock(publisher.PublishHook)
	session.OnLogout(snapshot.ClearHook)
	session.OnLogout(publisher.RevokeHook)

	server := bridge.NewServer(c.BridgeAddr, logger, bridgeSvc, session, rate.Limit(c.BridgeRateLimit), c.BridgeRateBurst)

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		cache:     store,
		session:   session,
		shell:     cli.NewApp(session, engine, bridgeSvc, logger, in, out),
		bridgeSvc: bridgeSvc,
		server:    server,
		publisher: publisher,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		select {
		case <-sigs:
		case <-ctx.Done():
			return
		}
		app.logger.Info(ctx, "signal received, locking vault")
		app.shutdown(context.Background())
		memguard.SafeExit(1)
	}()
}

// Run serves the bridge in the background and runs the shell in the
// foreground. It returns when the shell exits.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.initSignalHandler(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, "bridge server stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		app.publisher.RunRefresher(ctx, app.session.IsUnlocked)
	}()

	err := app.shell.Run(ctx)

	cancel()
	wg.Wait()
	app.shutdown(context.Background())
	return err
}

// shutdown locks the vault, which removes the token file and the snapshot,
// and closes the stores.
func (app *App) shutdown(ctx context.Context) {
	app.once.Do(func() {
		app.session.Logout(ctx)
		if c, ok := app.cache.(io.Closer); ok {
			if err := c.Close(); err != nil {
				app.logger.Error(ctx, "close cache", "error", err)
			}
		}
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "close db", "error", err)
		}
	})
}
