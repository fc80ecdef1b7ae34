// Package db opens the SQLite database that backs the persisted
// session collections and keeps its schema current.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DefaultPath is the database file used when no -db flag is given.
const DefaultPath = "campusfind.sqlite3"

// Open opens the database at path and applies the connection pragmas.
// The driver is pure Go, so the binary stays cgo-free.
func Open(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	// WAL keeps readers unblocked while sessions write collections
	// through; the busy timeout covers concurrent write-through.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := database.Exec(pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	return database, nil
}
