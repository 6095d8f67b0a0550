package entries

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/models"
)

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository returns a new PostgresRepository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Put(ctx context.Context, e models.VaultEntry) error {
	query := `INSERT INTO entries (id, website, identifier, password, group_name, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET website = EXCLUDED.website,
			identifier = EXCLUDED.identifier,
			password = EXCLUDED.password,
			group_name = EXCLUDED.group_name,
			note = EXCLUDED.note`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Website, e.Identifier, e.Password, e.Group, e.Note)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.VaultEntry, error) {
	query := `SELECT id, website, identifier, password, group_name, note FROM entries ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.VaultEntry, error) {
	query := `SELECT id, website, identifier, password, group_name, note FROM entries WHERE id = $1`
	return scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res, common.ErrNotFound)
}

func (r *PostgresRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
