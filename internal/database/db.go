// Package database stores users, accounts, transactions, budgets, goals,
// categories, notifications and report metadata. The same queries run on
// PostgreSQL (pgxpool) and on SQLite (modernc.org/sqlite).
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	// SQLite driver for local runs and tests
	_ "modernc.org/sqlite"
)

var (
	// ErrNoRows is returned when a lookup matches nothing, whatever the driver.
	ErrNoRows = errors.New("no rows in result set")
	// ErrConflict is returned when a versioned row changed under the caller.
	ErrConflict = errors.New("row was modified concurrently")
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB is a connection pool plus the queries bound to it.
type DB struct {
	*Queries

	dialect Dialect
	pool    *pgxpool.Pool
	sqlDB   *sql.DB
}

// Open connects using the given driver name ("postgres" or "sqlite").
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch Dialect(strings.ToLower(driver)) {
	case Postgres, "pgx", "":
		return OpenPostgres(ctx, dsn)
	case SQLite:
		return OpenSQLite(ctx, dsn)
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging postgres: %w", err)
	}
	return &DB{
		Queries: &Queries{q: pgxQuerier{pool}, dialect: Postgres},
		dialect: Postgres,
		pool:    pool,
	}, nil
}

// OpenSQLite opens a SQLite file, or an in-memory database for ":memory:".
// SQLite allows a single writer, so the pool is capped at one connection.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error pinging sqlite: %w", err)
	}
	for _, pragma := range []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("error configuring sqlite: %w", err)
		}
	}
	return &DB{
		Queries: &Queries{q: sqlQuerier{conn}, dialect: SQLite},
		dialect: SQLite,
		sqlDB:   conn,
	}, nil
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

// RunInTx runs fn in a single database transaction. Any error returned by fn,
// or a cancelled ctx, rolls back every write fn made.
func (db *DB) RunInTx(ctx context.Context, fn func(q *Queries) error) error {
	if db.pool != nil {
		return pgx.BeginTxFunc(ctx, db.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
			return fn(&Queries{q: pgxQuerier{tx}, dialect: db.dialect})
		})
	}

	tx, err := db.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	if err := fn(&Queries{q: sqlQuerier{tx}, dialect: db.dialect}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	if db.pool != nil {
		return db.pool.Ping(ctx)
	}
	return db.sqlDB.PingContext(ctx)
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.sqlDB != nil {
		_ = db.sqlDB.Close()
	}
}

// Queries holds every statement of the application. Outside RunInTx each call
// is its own statement; inside, all calls share the transaction.
type Queries struct {
	q       querier
	dialect Dialect
}

// forUpdate locks the selected row until the transaction ends. SQLite has a
// single writer already and no row locks.
func (q *Queries) forUpdate() string {
	if q.dialect == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
