// Package sqlite is the embedded store used by tests and single-node
// deployments. It mirrors the Postgres store over database/sql; SQLite
// transactions are serializable by default, so there is no retry loop.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/commerce-ledger/internal/posting"
	"github.com/example/commerce-ledger/internal/reports"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQLite-backed store.
type Store struct {
	DB *sql.DB
	queries
}

var (
	_ posting.DB     = (*Store)(nil)
	_ reports.Reader = (*Store)(nil)
)

// Open opens (or creates) the database at dsn and applies the schema.
// Use ":memory:" for an ephemeral database.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// The sqlite3 driver serializes access per connection; a single
	// connection avoids table-lock errors under concurrent use and keeps
	// an in-memory database alive for the store's lifetime.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{DB: db, queries: queries{db: db}}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate applies the schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Tx is one open unit of work.
type Tx struct {
	queries
}

var _ posting.Tx = (*Tx)(nil)

// RunInTx executes fn inside one transaction. Any error from fn rolls
// everything back.
func (s *Store) RunInTx(ctx context.Context, fn func(tx posting.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{queries: queries{db: tx}}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
