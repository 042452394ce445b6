package hashdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// mustCreateHashDB creates a VIC_HASHES database seeded with the given
// values and returns its path.
func mustCreateHashDB(tb testing.TB, values ...string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "vic.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("create hash DB: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE VIC_HASHES (hash_value TEXT PRIMARY KEY)`); err != nil {
		tb.Fatalf("create table: %v", err)
	}
	for _, v := range values {
		if _, err := db.Exec(`INSERT OR IGNORE INTO VIC_HASHES (hash_value) VALUES (?)`, v); err != nil {
			tb.Fatalf("insert %q: %v", v, err)
		}
	}
	return path
}

func TestLoadNormalisesAndDeduplicates(t *testing.T) {
	path := mustCreateHashDB(t,
		"ABCDEF0123456789",
		"DEADBEEF",
		"deadbeef",
		"  cafebabe  ",
	)

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	set, err := Load(db)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(set) != 3 {
		t.Errorf("set size = %d, want 3 (case-folded duplicates collapse)", len(set))
	}
	for _, want := range []string{"abcdef0123456789", "deadbeef", "cafebabe"} {
		if !set.Contains(want) {
			t.Errorf("set missing %q", want)
		}
	}
	if set.Contains("ABCDEF0123456789") {
		t.Error("Contains should be exact on lower-case values")
	}
}

func TestLoadEmptyTable(t *testing.T) {
	path := mustCreateHashDB(t)

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	set, err := Load(db)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("set size = %d, want 0", len(set))
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for missing database file")
	}
}
