package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/cache"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

const (
	testIdentifier = "alice"
	testPassword   = "pw1"
	testRecovery   = "ABCDE-FGHIJ-KLMNO"
)

type env struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	session AuthSession
	engine  VaultEngine
	cache   *cache.MemoryStore
	sync    *SnapshotSync
	bridge  BridgeService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, rm, err := repomanager.Open(ctx, repomanager.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.Discard()
	e := &env{db: db, rm: rm, cache: cache.NewMemoryStore()}
	e.session = NewAuthSession(db, rm, cryptox.DefaultKDF(), log)
	e.engine = NewVaultEngine(db, rm, e.session, log)
	e.sync = NewSnapshotSync(e.engine, e.cache, log)
	e.bridge = NewBridgeService(e.session, e.engine, e.cache, log)
	return e
}

// unlocked returns an env after a successful setup of the test user.
func unlockedEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	_, err := e.session.Setup(context.Background(), testIdentifier, testPassword, testRecovery)
	require.NoError(t, err)
	return e
}
