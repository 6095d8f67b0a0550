// Package entries provides the record store for vault entries.
//
// # Overview
//
// The package defines a Repository interface with the keyed-record
// operations the vault engine needs (Put, GetAll, Get, Delete, Clear) and two
// implementations over dbx.DBTX (either *sql.DB or *sql.Tx):
//
//   - SQLiteRepository   for the local single-file store (modernc.org/sqlite)
//   - PostgresRepository for a PostgreSQL store (pgx stdlib driver)
//
// # Data Model
//
// Rows mirror models.VaultEntry. The password column always holds a
// serialized ciphertext blob; repositories never see plaintext passwords.
// GetAll returns rows in insertion order so matching stays stable.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, entry)
//	list, _ := repo.GetAll(ctx)
//	one, _ := repo.Get(ctx, id)
//	_ = repo.Delete(ctx, id)
package entries
