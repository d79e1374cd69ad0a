// Package store provides the SQLite tables backing the bookmark, tag and
// note collections, with filtered queries, single mutations, and an
// all-or-nothing bulk loader.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Kind identifies one of the three entity tables.
type Kind int

const (
	KindBookmark Kind = iota
	KindTag
	KindNote
)

// Table returns the backing table name for the kind.
func (k Kind) Table() string {
	switch k {
	case KindBookmark:
		return "bookmark"
	case KindTag:
		return "tag"
	case KindNote:
		return "note"
	default:
		return ""
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS bookmark (
	_id         INTEGER PRIMARY KEY AUTOINCREMENT,
	url         TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	notes       TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '',
	shared      INTEGER NOT NULL DEFAULT 1,
	toread      INTEGER NOT NULL DEFAULT 0,
	time        INTEGER NOT NULL DEFAULT 0,
	account     TEXT NOT NULL DEFAULT '',
	synced      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS tag (
	_id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name    TEXT NOT NULL,
	count   INTEGER NOT NULL DEFAULT 0,
	account TEXT NOT NULL DEFAULT '',
	UNIQUE(name, account)
);

CREATE TABLE IF NOT EXISTS note (
	_id     INTEGER PRIMARY KEY AUTOINCREMENT,
	title   TEXT NOT NULL DEFAULT '',
	text    TEXT NOT NULL DEFAULT '',
	account TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_bookmark_account ON bookmark(account);
CREATE INDEX IF NOT EXISTS idx_bookmark_toread ON bookmark(toread);
CREATE INDEX IF NOT EXISTS idx_tag_account ON tag(account);
CREATE INDEX IF NOT EXISTS idx_note_account ON note(account);
`

// DB wraps a sql.DB with table-level operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
