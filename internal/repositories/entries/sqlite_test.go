package entries

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE entries (
  id         TEXT PRIMARY KEY,
  website    TEXT NOT NULL,
  identifier TEXT NOT NULL DEFAULT '',
  password   TEXT NOT NULL,
  group_name TEXT NOT NULL DEFAULT '',
  note       TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)

	return db
}

func TestPut_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	e1 := models.VaultEntry{ID: "id1", Website: "bank.com", Identifier: "alice", Password: "blob1", Group: "fin", Note: "n1"}
	require.NoError(t, r.Put(ctx, e1))

	got, err := r.Get(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, e1, got)

	e1b := models.VaultEntry{ID: "id1", Website: "bank.org", Identifier: "alice2", Password: "blob2"}
	require.NoError(t, r.Put(ctx, e1b))

	got, err = r.Get(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, e1b, got)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n))
	assert.Equal(t, 1, n, "upsert must not duplicate ids")
}

func TestGetAll_InsertionOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Put(ctx, models.VaultEntry{ID: id, Website: id + ".com", Password: "x"}))
	}
	// updating must keep the position
	require.NoError(t, r.Put(ctx, models.VaultEntry{ID: "c", Website: "c2.com", Password: "y"}))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "c2.com", got[0].Website)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "b", got[2].ID)
}

func TestGetAll_Empty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	got, err := r.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGet_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_SuccessAndNotFound(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	r := NewSQLiteRepository(db)

	require.NoError(t, r.Put(ctx, models.VaultEntry{ID: "x", Website: "x.com", Password: "b"}))
	require.NoError(t, r.Delete(ctx, "x"))

	err := r.Delete(ctx, "x")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = r.Get(ctx, "x")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	r := NewSQLiteRepository(db)

	require.NoError(t, r.Put(ctx, models.VaultEntry{ID: "1", Website: "a", Password: "b"}))
	require.NoError(t, r.Put(ctx, models.VaultEntry{ID: "2", Website: "a", Password: "b"}))
	require.NoError(t, r.Clear(ctx))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
