package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// DB wraps a SQLite connection to an rlm index database. Foreign keys are
// enabled at open time as required by the cascade-delete invariants on
// files -> chunks -> refs.
type DB struct {
	conn *sql.DB
}

// Open opens (and if necessary creates) the index database at path.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, path, err)
	}
	conn.SetMaxOpenConns(1) // one writer at a time per spec's concurrency model

	var tableCount int
	if err := conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='files'",
	).Scan(&tableCount); err != nil {
		conn.Close()
		return nil, rlmerr.Wrap(rlmerr.Storage, path, err)
	}
	if tableCount == 0 {
		if err := CreateSchema(conn); err != nil {
			conn.Close()
			return nil, rlmerr.Wrap(rlmerr.Storage, path, err)
		}
	}

	return &DB{conn: conn}, nil
}

// OpenInMemory opens a throwaway in-memory database with the schema applied;
// used by tests.
func OpenInMemory() (*DB, error) {
	conn, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on&cache=shared")
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, ":memory:", err)
	}
	conn.SetMaxOpenConns(1)
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, rlmerr.Wrap(rlmerr.Storage, ":memory:", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error { return d.conn.Close() }

// Conn exposes the raw *sql.DB for callers (e.g. tests) that need direct access.
func (d *DB) Conn() *sql.DB { return d.conn }

// BeginImmediate starts an immediate-mode transaction on the single
// connection. With SetMaxOpenConns(1), every subsequent statement issued
// through DB runs on that same connection, so CRUD methods below can be
// called directly between BeginImmediate and Commit/Rollback without
// threading a *sql.Tx through every call — mirroring the single-connection,
// whole-run transaction the indexer requires.
func (d *DB) BeginImmediate() error {
	_, err := d.conn.Exec("BEGIN IMMEDIATE")
	return rlmerr.Wrap(rlmerr.Storage, "", err)
}

// Commit commits the currently open transaction.
func (d *DB) Commit() error {
	_, err := d.conn.Exec("COMMIT")
	return rlmerr.Wrap(rlmerr.Storage, "", err)
}

// Rollback rolls back the currently open transaction.
func (d *DB) Rollback() error {
	_, err := d.conn.Exec("ROLLBACK")
	return rlmerr.Wrap(rlmerr.Storage, "", err)
}
