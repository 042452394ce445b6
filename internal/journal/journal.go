// Package journal persists an audit trail of scan runs to a local SQLite
// database: one scan_history row per invocation and one findings row per
// match. The journal is an after-the-fact record; its failure never
// invalidates an already-computed scan result.
package journal

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/hashhound/hashhound/internal/scan"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens (or creates) the journal database at path and applies pending
// migrations. A single writer connection avoids SQLITE_BUSY under WAL.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("goose up: %w", err)
	}

	return db, nil
}

// RecordScan writes one completed scan and all its findings in a single
// transaction and returns the scan row ID.
func RecordScan(db *sql.DB, evidencePath, investigator string, startedAt time.Time, res *scan.Result) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin journal transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.Exec(`
		INSERT INTO scan_history
			(evidence_path, investigator, started_at, finished_at,
			 duration_seconds, files_processed, files_matched,
			 volumes_skipped, dirs_skipped, files_skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evidencePath, investigator,
		startedAt.Unix(), startedAt.Add(res.Elapsed).Unix(),
		int64(res.Elapsed.Seconds()),
		res.FilesProcessed, res.FilesMatched,
		res.VolumesSkipped, res.DirsSkipped, res.FilesSkipped)
	if err != nil {
		return 0, fmt.Errorf("insert scan record: %w", err)
	}
	scanID, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("scan record id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO findings
			(scan_id, hash_value, file_path, file_name, file_size,
			 partition_offset, created_time, modified_time, accessed_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare finding insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range res.Findings {
		if _, err := stmt.Exec(
			scanID, f.HashValue, f.FilePath, f.FileName, f.FileSize,
			f.PartitionOffset,
			unixOrNil(f.Created), unixOrNil(f.Modified), unixOrNil(f.Accessed),
		); err != nil {
			return 0, fmt.Errorf("insert finding %q: %w", f.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit journal transaction: %w", err)
	}
	return scanID, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
