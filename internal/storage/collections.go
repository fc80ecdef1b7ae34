// Package storage mirrors the domain store's entity collections to SQLite.
//
// Each session (one per logged-in user) owns four collections. They are
// serialized as whole JSON documents under a versioned key, overwritten on
// every mutation (write-through, not write-back). The session's in-memory
// state is the source of truth; storage holds no independent copy.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt marks a stored collection value that no longer parses.
// Only this error licenses a fixture reseed; any other load error may
// be transient and must not cause good persisted state to be replaced.
var ErrCorrupt = errors.New("stored collection is corrupt")

// keyPrefix versions the stored collection keys. Bump on incompatible
// changes to the entity wire format.
const keyPrefix = "campusfind.v1."

// Collection names.
const (
	CollectionUsers         = "users"
	CollectionItems         = "items"
	CollectionClaims        = "claims"
	CollectionNotifications = "notifications"
)

// CollectionNames lists every collection a session persists.
var CollectionNames = []string{
	CollectionUsers,
	CollectionItems,
	CollectionClaims,
	CollectionNotifications,
}

// SaveCollection serializes v and overwrites the stored value for the
// given session and collection name.
func SaveCollection(ctx context.Context, db *sql.DB, session, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializing collection %s: %w", name, err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO collections (session, name, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (session, name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		session, keyPrefix+name, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving collection %s: %w", name, err)
	}
	return nil
}

// LoadCollection reads a stored collection into dest. It returns false if
// no value is stored for the session, and an error wrapping ErrCorrupt if
// the stored value does not parse (the caller falls back to fixtures and
// overwrites). Other errors are read failures and leave the stored value
// authoritative.
func LoadCollection(ctx context.Context, db *sql.DB, session, name string, dest any) (bool, error) {
	var data string
	err := db.QueryRowContext(ctx,
		`SELECT data FROM collections WHERE session = ? AND name = ?`,
		session, keyPrefix+name,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading collection %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("parsing collection %s: %w: %w", name, ErrCorrupt, err)
	}
	return true, nil
}

// ClearSession deletes all stored collections for a session. Called on
// logout so the next login starts from the seed fixtures.
func ClearSession(ctx context.Context, db *sql.DB, session string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM collections WHERE session = ?`, session,
	)
	if err != nil {
		return fmt.Errorf("clearing session %s: %w", session, err)
	}
	return nil
}
