// Command hashhound scans a forensic evidence tree for files whose content
// digests match a reference hash database and writes a forensic PDF report.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/hashhound/hashhound/internal/config"
	"github.com/hashhound/hashhound/internal/evidence"
	"github.com/hashhound/hashhound/internal/hashdb"
	"github.com/hashhound/hashhound/internal/journal"
	"github.com/hashhound/hashhound/internal/report"
	"github.com/hashhound/hashhound/internal/scan"
)

// Injected at build time via -ldflags; defaults to "dev".
var version = "dev"

func main() {
	var (
		evidencePath = pflag.String("evidence", "", "path to the evidence tree to be examined")
		hashDBPath   = pflag.String("hash-db", "", "path to the reference hash database (SQLite)")
		investigator = pflag.String("investigator", "", "first and last name of the investigator for the report header")
		outputPath   = pflag.String("output", "", "target path for the PDF report")
		caseNumber   = pflag.String("case-number", "", "optional case/reference number for the report header")
		configPath   = pflag.String("config", "hashhound.yaml", "path to optional config file")
		debug        = pflag.Bool("debug", false, "enable debug logging")
	)
	pflag.Parse()

	if err := validateArgs(*evidencePath, *hashDBPath, *investigator, *outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\nUse --help for usage information.\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := parseLogLevel(cfg.LogLevel)
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	slog.Info("hashhound starting",
		"version", version,
		"evidence", *evidencePath,
		"hash_db", *hashDBPath,
		"investigator", *investigator,
		"output", *outputPath)

	// ── Target hashes ──────────────────────────────────────────────────────
	db, err := hashdb.Open(*hashDBPath)
	if err != nil {
		slog.Error("open hash database", "error", err)
		os.Exit(1)
	}
	targets, err := hashdb.Load(db)
	db.Close()
	if err != nil {
		slog.Error("load target hashes", "error", err)
		os.Exit(1)
	}

	// ── Evidence image ─────────────────────────────────────────────────────
	img, err := evidence.OpenDirectory(*evidencePath)
	if err != nil {
		slog.Error("open evidence", "error", err)
		os.Exit(1)
	}
	defer img.Close()

	// ── Scan ───────────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	scanner := scan.New(img, targets, scan.Options{
		ProgressOut:    os.Stdout,
		RenderInterval: time.Duration(cfg.RenderIntervalMs) * time.Millisecond,
		LogInterval:    time.Duration(cfg.LogIntervalS) * time.Second,
		MetadataPrefix: cfg.MetadataPrefix,
		MaxDepth:       cfg.MaxDepth,
	})
	res, err := scanner.Run(ctx)
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(1)
	}

	// ── Journal (optional) ─────────────────────────────────────────────────
	if cfg.JournalPath != "" {
		jdb, err := journal.Open(cfg.JournalPath)
		if err != nil {
			slog.Error("open journal", "error", err)
			os.Exit(1)
		}
		scanID, err := journal.RecordScan(jdb, *evidencePath, *investigator, startedAt, res)
		jdb.Close()
		if err != nil {
			slog.Error("record scan in journal", "error", err)
			os.Exit(1)
		}
		slog.Debug("scan journaled", "scan_id", scanID, "journal", cfg.JournalPath)
	}

	// ── Report ─────────────────────────────────────────────────────────────
	if err := report.Generate(report.Params{
		Investigator: *investigator,
		EvidencePath: *evidencePath,
		OutputPath:   *outputPath,
		CaseNumber:   *caseNumber,
	}, res.Findings); err != nil {
		slog.Error("generate report", "error", err)
		os.Exit(1)
	}

	slog.Info("hashhound finished",
		"processed", res.FilesProcessed,
		"matched", res.FilesMatched,
		"report", *outputPath)
}

// validateArgs enforces the CLI contract before any work starts.
func validateArgs(evidencePath, hashDBPath, investigator, outputPath string) error {
	if evidencePath == "" || hashDBPath == "" || investigator == "" || outputPath == "" {
		return fmt.Errorf("--evidence, --hash-db, --investigator and --output are required")
	}

	if _, err := os.Stat(evidencePath); err != nil {
		return fmt.Errorf("evidence path does not exist: %s", evidencePath)
	}

	info, err := os.Stat(hashDBPath)
	if err != nil {
		return fmt.Errorf("hash database file does not exist: %s", hashDBPath)
	}
	if info.IsDir() {
		return fmt.Errorf("hash database path is not a file: %s", hashDBPath)
	}

	if len(strings.TrimSpace(investigator)) < 2 {
		return fmt.Errorf("investigator name must be at least 2 characters long")
	}

	outDir := filepath.Dir(outputPath)
	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory does not exist: %s", outDir)
	}
	if !strings.HasSuffix(strings.ToLower(outputPath), ".pdf") {
		return fmt.Errorf("output file must be a PDF file: %s", outputPath)
	}

	return nil
}

// parseLogLevel converts a config string ("debug", "info", "warn", "error")
// to its slog.Level equivalent. Unknown values default to Info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
