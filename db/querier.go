package db

import (
	"context"
	"fmt"

	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
)

type rowScanner interface {
	Scan(dest ...any) error
}

type rows interface {
	rowScanner
	Next() bool
	Err() error
	Close()
}

// querier is what the store needs from a driver transaction. Queries use the
// @name placeholders of pgx.NamedArgs for every driver.
type querier interface {
	exec(ctx context.Context, query string, args pgx.NamedArgs) (int64, error)
	query(ctx context.Context, query string, args pgx.NamedArgs) (rows, error)
	// queryRow returns pgx.ErrNoRows from Scan when nothing matched.
	queryRow(ctx context.Context, query string, args pgx.NamedArgs) rowScanner
	isUniqueViolation(err error) bool
	commit(ctx context.Context) error
	rollback(ctx context.Context) error
}

type conn interface {
	begin(ctx context.Context) (querier, error)
	close()
}

// store implements DB on top of any conn.
type store struct {
	conn  conn
	clock clock.Clock
}

func (s *store) InTx(ctx context.Context, fn func(tx Tx) error) error {
	q, err := s.conn.begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer q.rollback(ctx)

	if err := fn(&sqlTx{q: q, clock: s.clock}); err != nil {
		return err
	}

	if err := q.commit(ctx); err != nil {
		return fmt.Errorf("error commiting transaction: %w", err)
	}
	return nil
}

func (s *store) Close() {
	s.conn.close()
}

// sqlTx implements Tx. The SQL it runs is shared by Postgres and SQLite.
type sqlTx struct {
	q     querier
	clock clock.Clock
}

// collect scans every row with scan and closes rows.
func collect[T any](r rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer r.Close()

	results := make([]T, 0, 16)
	for r.Next() {
		v, err := scan(r)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
