// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database: it lives inside the Go binary as a single file.
// No separate database server to install, configure, or manage. ":memory:" gives
// every test its own throwaway database.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means a C compiler and painful cross-compilation.
// modernc.org/sqlite is a pure Go translation of SQLite: no C compiler needed.
//
// DOCUMENTS ON TOP OF TABLES:
// A submission is handled as one document (the submission plus its comments,
// reviews and likes). Each collection gets its own table with a position column
// so the newest-first order survives a round trip. Save rewrites the parent row
// and all three collections inside one transaction.
//
// MIGRATIONS:
// Schema changes live in migrations/*.sql, embedded into the binary and applied
// by goose on every New. goose records what already ran in its own
// goose_db_version table, so restarting against an existing file is a no-op.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	// The blank import registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB wraps a sql.DB connection pool and provides repository methods.
// It implements SubmissionRepository, UserRepository and ProfileRepository.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and brings the schema up to date.
//
// dbPath examples:
//   - "data/reviews.db" → file-based database (persistent)
//   - ":memory:"        → in-memory database (tests; lost on close)
//
// ONE CONNECTION:
// database/sql hands out a fresh connection whenever the pool is busy, and a
// fresh connection to ":memory:" is a fresh, empty database. Capping the pool
// at one connection keeps every query on the same database and makes this
// process the single writer. The repository code therefore never holds a
// *sql.Rows open while issuing another query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The ON DELETE CASCADE on the
	// collection tables depends on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable. Used by the health check.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db.conn, "migrations")
}

// inTx runs fn inside a transaction, committing on success and rolling back
// on any error.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
