package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// NewPostgres connects to Postgres and creates the tables that do not exist yet.
func NewPostgres(ctx context.Context, connString string, clock clock.Clock) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Without arguments pgx uses the simple protocol, which allows many statements.
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return &store{conn: &postgresConn{pool: pool}, clock: clock}, nil
}

type postgresConn struct {
	pool *pgxpool.Pool
}

func (c *postgresConn) begin(ctx context.Context) (querier, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &postgresTx{tx: tx}, nil
}

func (c *postgresConn) close() {
	c.pool.Close()
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) exec(ctx context.Context, query string, args pgx.NamedArgs) (int64, error) {
	tag, err := t.tx.Exec(ctx, query, args)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t *postgresTx) query(ctx context.Context, query string, args pgx.NamedArgs) (rows, error) {
	r, err := t.tx.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (t *postgresTx) queryRow(ctx context.Context, query string, args pgx.NamedArgs) rowScanner {
	return t.tx.QueryRow(ctx, query, args)
}

func (t *postgresTx) isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (t *postgresTx) commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *postgresTx) rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
