package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Entity collections are stored as whole JSON documents per session, not
// as relational rows: the collections table mirrors the domain store's
// in-memory state, one row per (session, collection name), overwritten on
// every mutation.
const schema = `
CREATE TABLE IF NOT EXISTS collections (
    session    TEXT NOT NULL,
    name       TEXT NOT NULL,
    data       TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session, name)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
