package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Put upserts an entry by id. The row keeps its position on update.
func (r *SQLiteRepository) Put(ctx context.Context, e models.VaultEntry) error {
	query := `INSERT INTO entries (id, website, identifier, password, group_name, note)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET website = excluded.website,
				identifier = excluded.identifier,
				password = excluded.password,
				group_name = excluded.group_name,
				note = excluded.note`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Website, e.Identifier, e.Password, e.Group, e.Note)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

// GetAll lists all entries ordered by rowid, which follows insertion order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.VaultEntry, error) {
	query := `SELECT id, website, identifier, password, group_name, note FROM entries ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Get returns a single entry.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (models.VaultEntry, error) {
	query := `SELECT id, website, identifier, password, group_name, note FROM entries WHERE id = ?`
	return scanEntry(r.db.QueryRowContext(ctx, query, id))
}

// Delete removes an entry. It expects exactly one row to be affected.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return dbx.ExpectOneRow(res, common.ErrNotFound)
}

// Clear removes every entry.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

func scanEntry(row *sql.Row) (models.VaultEntry, error) {
	var e models.VaultEntry
	err := row.Scan(&e.ID, &e.Website, &e.Identifier, &e.Password, &e.Group, &e.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VaultEntry{}, common.ErrNotFound
	}
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]models.VaultEntry, error) {
	var result []models.VaultEntry
	for rows.Next() {
		var e models.VaultEntry
		if err := rows.Scan(&e.ID, &e.Website, &e.Identifier, &e.Password, &e.Group, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry rows: %w", err)
	}
	return result, nil
}
