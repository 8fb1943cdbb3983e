package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateSchema creates all tables, indexes, triggers and the FTS5 virtual
// table for a fresh index database. Table/index creation happens inside a
// transaction for atomicity; the FTS5 virtual table and its sync triggers
// are created afterward since SQLite requires virtual tables to be created
// outside an open transaction.
//
// Must be called with PRAGMA foreign_keys = ON already set on the connection.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // safe to call even after commit

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"files", createFilesTable},
		{"chunks", createChunksTable},
		{"refs", createRefsTable},
		{"rlm_metadata", createMetadataTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range getAllIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	if _, err := db.Exec(createChunksFTSTable); err != nil {
		return fmt.Errorf("failed to create chunks_fts table: %w", err)
	}
	if err := createFTSTriggers(db); err != nil {
		return fmt.Errorf("failed to create FTS triggers: %w", err)
	}

	tx, err = db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin metadata transaction: %w", err)
	}
	defer tx.Rollback()
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		`INSERT INTO rlm_metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)`,
		SchemaVersion, now,
	); err != nil {
		return fmt.Errorf("failed to bootstrap rlm_metadata: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit metadata transaction: %w", err)
	}

	return nil
}

// SchemaVersion is the current on-disk schema version string.
const SchemaVersion = "1"

// GetSchemaVersion returns the schema version recorded in rlm_metadata, or
// "0" if the database has not been initialized yet.
func GetSchemaVersion(db *sql.DB) (string, error) {
	var exists int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='rlm_metadata'",
	).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("failed to check rlm_metadata existence: %w", err)
	}
	if exists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM rlm_metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in rlm_metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

const createFilesTable = `
CREATE TABLE files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    hash TEXT NOT NULL,
    lang TEXT NOT NULL,
    size_bytes INTEGER NOT NULL DEFAULT 0,
    indexed_at INTEGER NOT NULL,
    parse_quality TEXT NOT NULL DEFAULT 'complete'
)
`

const createChunksTable = `
CREATE TABLE chunks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    start_byte INTEGER NOT NULL,
    end_byte INTEGER NOT NULL,
    kind TEXT NOT NULL,
    ident TEXT NOT NULL,
    parent TEXT,
    signature TEXT,
    visibility TEXT,
    ui_ctx TEXT,
    doc_comment TEXT,
    attributes TEXT,
    content TEXT NOT NULL
)
`

const createRefsTable = `
CREATE TABLE refs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    chunk_id INTEGER NOT NULL REFERENCES chunks(id) ON DELETE CASCADE,
    target_ident TEXT NOT NULL,
    ref_kind TEXT NOT NULL,
    line INTEGER NOT NULL,
    col INTEGER NOT NULL
)
`

const createMetadataTable = `
CREATE TABLE rlm_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

const createChunksFTSTable = `
CREATE VIRTUAL TABLE chunks_fts USING fts5(
    ident,
    parent,
    signature,
    doc_comment,
    content,
    content='chunks',
    content_rowid='id'
)
`

func getAllIndexes() []string {
	return []string{
		"CREATE INDEX idx_chunks_file_id ON chunks(file_id)",
		"CREATE INDEX idx_chunks_ident ON chunks(ident)",
		"CREATE INDEX idx_chunks_start_line ON chunks(file_id, start_line)",
		"CREATE INDEX idx_refs_chunk_id ON refs(chunk_id)",
		"CREATE INDEX idx_refs_target_ident ON refs(target_ident)",
	}
}

// createFTSTriggers keeps chunks_fts in sync with chunks via the standard
// FTS5 "external content" trigger trio.
func createFTSTriggers(db *sql.DB) error {
	triggers := []string{
		`CREATE TRIGGER chunks_fts_insert AFTER INSERT ON chunks BEGIN
			INSERT INTO chunks_fts(rowid, ident, parent, signature, doc_comment, content)
			VALUES (new.id, new.ident, new.parent, new.signature, new.doc_comment, new.content);
		END`,
		`CREATE TRIGGER chunks_fts_delete AFTER DELETE ON chunks BEGIN
			INSERT INTO chunks_fts(chunks_fts, rowid, ident, parent, signature, doc_comment, content)
			VALUES ('delete', old.id, old.ident, old.parent, old.signature, old.doc_comment, old.content);
		END`,
		`CREATE TRIGGER chunks_fts_update AFTER UPDATE ON chunks BEGIN
			INSERT INTO chunks_fts(chunks_fts, rowid, ident, parent, signature, doc_comment, content)
			VALUES ('delete', old.id, old.ident, old.parent, old.signature, old.doc_comment, old.content);
			INSERT INTO chunks_fts(rowid, ident, parent, signature, doc_comment, content)
			VALUES (new.id, new.ident, new.parent, new.signature, new.doc_comment, new.content);
		END`,
	}

	for i, trigger := range triggers {
		if _, err := db.Exec(trigger); err != nil {
			return fmt.Errorf("failed to create trigger %d: %w", i+1, err)
		}
	}
	return nil
}
