package entries

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/stretchr/testify/require"
)

func newPostgresWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

var entryColumns = []string{"id", "website", "identifier", "password", "group_name", "note"}

func TestPostgresPut(t *testing.T) {
	repo, mock, _ := newPostgresWithMock(t)

	e := models.VaultEntry{ID: "id1", Website: "bank.com", Identifier: "alice", Password: "blob", Group: "g", Note: "n"}
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+entries.*ON\s+CONFLICT\s+\(id\)\s+DO\s+UPDATE`).
		WithArgs("id1", "bank.com", "alice", "blob", "g", "n").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Put(context.Background(), e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPut_DBError(t *testing.T) {
	repo, mock, _ := newPostgresWithMock(t)

	mock.ExpectExec(`INSERT INTO entries`).WillReturnError(errors.New("db down"))

	err := repo.Put(context.Background(), models.VaultEntry{ID: "x"})
	require.ErrorContains(t, err, "db error: db down")
}

func TestPostgresGetAll(t *testing.T) {
	repo, mock, _ := newPostgresWithMock(t)

	rows := sqlmock.NewRows(entryColumns).
		AddRow("1", "a.com", "u1", "b1", "", "").
		AddRow("2", "b.com", "u2", "b2", "g", "n")
	mock.ExpectQuery(`(?s)^SELECT .* FROM entries ORDER BY seq$`).WillReturnRows(rows)

	got, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []models.VaultEntry{
		{ID: "1", Website: "a.com", Identifier: "u1", Password: "b1"},
		{ID: "2", Website: "b.com", Identifier: "u2", Password: "b2", Group: "g", Note: "n"},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock, _ := newPostgresWithMock(t)

	mock.ExpectQuery(`WHERE id = \$1`).WithArgs("missing").WillReturnRows(sqlmock.NewRows(entryColumns))

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostgresGet_OK(t *testing.T) {
	repo, mock, _ := newPostgresWithMock(t)

	mock.ExpectQuery(`WHERE id = \$1`).WithArgs("1").
		WillReturnRows(sqlmock.NewRows(entryColumns).AddRow("1", "a.com", "u", "b", "", ""))

	got, err := repo.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, models.VaultEntry{ID: "1", Website: "a.com", Identifier: "u", Password: "b"}, got)
}

func TestPostgresDelete(t *testing.T) {
	repo, mock, _ := newPostgresWithMock(t)

	mock.ExpectExec(`DELETE FROM entries WHERE id = \$1`).WithArgs("1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM entries WHERE id = \$1`).WithArgs("2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "1"))
	require.ErrorIs(t, repo.Delete(context.Background(), "2"), common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClear(t *testing.T) {
	repo, mock, _ := newPostgresWithMock(t)

	mock.ExpectExec(`^DELETE FROM entries$`).WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Clear(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
