// Package postgres is the production store: one pgx pool, SERIALIZABLE
// units of work with bounded retry on serialization failure, and
// parameterized SQL throughout.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/commerce-ledger/internal/posting"
	"github.com/example/commerce-ledger/internal/reports"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every query
// below runs identically inside and outside a unit of work.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres-backed store. Reads outside a transaction run on
// the pool; writes go through RunInTx.
type Store struct {
	Pool *pgxpool.Pool
	queries
}

var (
	_ posting.DB     = (*Store)(nil)
	_ reports.Reader = (*Store)(nil)
)

// NewStore returns a store over the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool, queries: queries{db: pool}}
}

// Tx is one open unit of work.
type Tx struct {
	queries
}

var _ posting.Tx = (*Tx)(nil)

// RunInTx executes fn inside one SERIALIZABLE transaction, retrying a
// bounded number of times when Postgres reports a serialization failure
// (SQLSTATE 40001). Any error from fn rolls everything back.
func (s *Store) RunInTx(ctx context.Context, fn func(tx posting.Tx) error) error {
	const maxRetries = 3

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != "40001" {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	return fmt.Errorf("transaction failed after %d retries due to serialization failure: %w", maxRetries, err)
}

func (s *Store) runOnce(ctx context.Context, fn func(tx posting.Tx) error) error {
	conn, err := s.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Tx{queries: queries{db: tx}}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Migrate applies the schema. Statements are idempotent, so re-running a
// deploy is safe.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
