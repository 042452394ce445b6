package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hashhound/hashhound/internal/scan"
)

func TestOpenAppliesMigrations(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"scan_history", "findings"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not created: %v", table, err)
		}
	}
}

func TestRecordScanRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	modified := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	res := &scan.Result{
		Findings: []scan.Finding{
			{
				HashValue:       "deadbeef",
				FilePath:        "/docs/report.txt",
				FileName:        "report.txt",
				FileSize:        42,
				PartitionOffset: 1048576,
				Modified:        &modified,
			},
			{
				HashValue: "cafebabe",
				FilePath:  "/tmp/x.bin",
				FileName:  "x.bin",
				FileSize:  7,
			},
		},
		FilesProcessed: 100,
		FilesMatched:   2,
		Elapsed:        3 * time.Second,
	}

	scanID, err := RecordScan(db, "/evidence/disk.img", "Jane Doe", time.Now(), res)
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if scanID == 0 {
		t.Fatal("expected non-zero scan ID")
	}

	var processed, matched int64
	err = db.QueryRow(
		`SELECT files_processed, files_matched FROM scan_history WHERE id = ?`, scanID,
	).Scan(&processed, &matched)
	if err != nil {
		t.Fatalf("query scan_history: %v", err)
	}
	if processed != 100 || matched != 2 {
		t.Errorf("scan_history counts = (%d, %d), want (100, 2)", processed, matched)
	}

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM findings WHERE scan_id = ?`, scanID).Scan(&count); err != nil {
		t.Fatalf("count findings: %v", err)
	}
	if count != 2 {
		t.Errorf("findings count = %d, want 2", count)
	}

	var offset int64
	var modifiedUnix *int64
	err = db.QueryRow(
		`SELECT partition_offset, modified_time FROM findings WHERE hash_value = 'deadbeef'`,
	).Scan(&offset, &modifiedUnix)
	if err != nil {
		t.Fatalf("query finding: %v", err)
	}
	if offset != 1048576 {
		t.Errorf("partition_offset = %d, want 1048576", offset)
	}
	if modifiedUnix == nil || *modifiedUnix != modified.Unix() {
		t.Errorf("modified_time = %v, want %d", modifiedUnix, modified.Unix())
	}

	var accessed *int64
	err = db.QueryRow(
		`SELECT accessed_time FROM findings WHERE hash_value = 'cafebabe'`,
	).Scan(&accessed)
	if err != nil {
		t.Fatalf("query finding: %v", err)
	}
	if accessed != nil {
		t.Errorf("accessed_time = %v, want NULL for absent timestamp", accessed)
	}
}

func TestRecordScanNoFindings(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := RecordScan(db, "/evidence", "Jane Doe", time.Now(), &scan.Result{}); err != nil {
		t.Fatalf("RecordScan with no findings: %v", err)
	}
}
