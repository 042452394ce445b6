// Package hashdb loads the reference hash set from a VIC-hash SQLite
// database. The set is built once before scanning and never mutated, so the
// scan core reads it without synchronization.
package hashdb

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// TargetSet is a deduplicated set of lower-case hex digest strings.
type TargetSet map[string]struct{}

// Contains reports whether the digest is in the set. Digests are stored
// lower-case; the caller is expected to pass lower-case hex.
func (s TargetSet) Contains(digest string) bool {
	_, ok := s[digest]
	return ok
}

// Open opens the hash database. The file must already exist; this tool only
// ever reads from it.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("hash database %q: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open hash database %q: %w", path, err)
	}
	return db, nil
}

// Load reads every row of the VIC_HASHES table into a TargetSet. Values are
// trimmed and lower-cased so matching is case-insensitive regardless of how
// the database was populated. An empty table yields an empty, valid set.
func Load(db *sql.DB) (TargetSet, error) {
	rows, err := db.Query(`SELECT hash_value FROM VIC_HASHES`)
	if err != nil {
		return nil, fmt.Errorf("query VIC_HASHES: %w", err)
	}
	defer rows.Close()

	set := make(TargetSet)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan hash row: %w", err)
		}
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read VIC_HASHES: %w", err)
	}

	slog.Debug("target hashes loaded", "count", len(set))
	return set, nil
}
