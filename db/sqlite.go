package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteMemory is the file name that keeps the database in memory.
const SQLiteMemory = ":memory:"

// NewSQLite opens the SQLite database file, creating it and its tables when needed.
func NewSQLite(ctx context.Context, path string, clock clock.Clock) (DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite file is required")
	}

	dsn := path
	if path != SQLiteMemory {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite db: %w", err)
	}
	// SQLite has a single writer and every connection to :memory: is a new database.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("error connecting to sqlite db: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return &store{conn: &sqliteConn{db: sqlDB}, clock: clock}, nil
}

type sqliteConn struct {
	db *sql.DB
}

func (c *sqliteConn) begin(ctx context.Context) (querier, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx}, nil
}

func (c *sqliteConn) close() {
	_ = c.db.Close()
}

type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) exec(ctx context.Context, query string, args pgx.NamedArgs) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, sqliteArgs(args)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *sqliteTx) query(ctx context.Context, query string, args pgx.NamedArgs) (rows, error) {
	r, err := t.tx.QueryContext(ctx, query, sqliteArgs(args)...)
	if err != nil {
		return nil, err
	}
	return &sqliteRows{Rows: r}, nil
}

func (t *sqliteTx) queryRow(ctx context.Context, query string, args pgx.NamedArgs) rowScanner {
	return &sqliteRow{row: t.tx.QueryRowContext(ctx, query, sqliteArgs(args)...)}
}

func (t *sqliteTx) isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (t *sqliteTx) commit(ctx context.Context) error {
	return t.tx.Commit()
}

func (t *sqliteTx) rollback(ctx context.Context) error {
	return t.tx.Rollback()
}

// sqliteArgs turns the pgx arguments into database/sql named arguments. SQLite
// understands the same @name placeholders.
func sqliteArgs(args pgx.NamedArgs) []any {
	result := make([]any, 0, len(args))
	for name, v := range args {
		result = append(result, sql.Named(name, v))
	}
	return result
}

type sqliteRows struct {
	*sql.Rows
}

func (r *sqliteRows) Close() {
	_ = r.Rows.Close()
}

type sqliteRow struct {
	row *sql.Row
}

func (r *sqliteRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return pgx.ErrNoRows
	}
	return err
}
