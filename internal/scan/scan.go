// Package scan walks every reachable file of an evidence image, hashes it,
// and tests the digests against a precomputed target set. The scanning
// worker is sequential; a reporter goroutine samples its counters.
package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hashhound/hashhound/internal/evidence"
	"github.com/hashhound/hashhound/internal/hashdb"
)

// Options tunes one scan invocation. Zero values select defaults.
type Options struct {
	// ProgressOut receives the live status line. nil disables rendering
	// (counters and progress log lines still flow).
	ProgressOut    io.Writer
	RenderInterval time.Duration
	LogInterval    time.Duration
	MetadataPrefix string
	MaxDepth       int
	// Logger scopes log output to this scan; nil uses slog.Default().
	// Injected rather than global so concurrent scans in one process keep
	// distinct contexts.
	Logger *slog.Logger
}

// Result is the complete outcome of a scan that ran to exhaustion.
type Result struct {
	Findings       []Finding
	FilesProcessed int64
	FilesMatched   int64
	VolumesSkipped int64
	DirsSkipped    int64
	FilesSkipped   int64
	Elapsed        time.Duration
	FilesPerSecond float64
}

// Scanner drives one pass over an opened image: enumerate volumes, walk each
// filesystem, hash and match every file, collect findings.
type Scanner struct {
	image   evidence.Image
	targets hashdb.TargetSet
	opts    Options
	log     *slog.Logger
}

// New creates a Scanner over an already-opened image.
func New(image evidence.Image, targets hashdb.TargetSet, opts Options) *Scanner {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{image: image, targets: targets, opts: opts, log: log}
}

// Run executes the scan to completion and returns the ordered findings plus
// summary counters. Per-volume, per-directory, and per-file failures are
// logged, counted, and skipped; the scan always exhausts what is reachable.
// Only two conditions abort: the image's volumes cannot be enumerated, or
// ctx is cancelled — both discard partial results.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	stats := NewStats()
	collector := NewCollector(stats)

	out := s.opts.ProgressOut
	if out == nil {
		out = io.Discard
	}
	reporter := NewReporter(stats, out, s.log, s.opts.RenderInterval, s.opts.LogInterval)
	reporter.Start()
	defer reporter.Stop()

	var volumesSkipped, dirsSkipped, filesSkipped int64

	volumes, err := s.image.Volumes()
	if err != nil {
		return nil, fmt.Errorf("enumerate volumes: %w", err)
	}
	s.log.Info("scan started", "volumes", len(volumes), "target_hashes", len(s.targets))

	for _, vol := range volumes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fs, err := vol.OpenFilesystem()
		if err != nil {
			s.log.Error("cannot access filesystem", "offset", vol.Offset(), "error", err)
			volumesSkipped++
			continue
		}
		s.log.Info("scanning volume", "offset", vol.Offset())

		walker := NewWalker(fs, "/", WalkerOptions{
			MetadataPrefix: s.opts.MetadataPrefix,
			MaxDepth:       s.opts.MaxDepth,
			Report: func(path, stage, errMsg string) {
				s.log.Warn("directory skipped", "path", path, "stage", stage, "error", errMsg)
				dirsSkipped++
			},
		})

		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			path, ok := walker.Next()
			if !ok {
				break
			}
			if !s.processFile(fs, path, vol.Offset(), stats, collector) {
				filesSkipped++
			}
		}
	}

	// Stop before reading the counters: the final render happens inside
	// Stop, so the last displayed line equals the returned summary.
	reporter.Stop()

	elapsed := stats.Elapsed()
	res := &Result{
		Findings:       collector.Findings(),
		FilesProcessed: stats.FilesProcessed.Load(),
		FilesMatched:   stats.FilesMatched.Load(),
		VolumesSkipped: volumesSkipped,
		DirsSkipped:    dirsSkipped,
		FilesSkipped:   filesSkipped,
		Elapsed:        elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		res.FilesPerSecond = float64(res.FilesProcessed) / secs
	}

	s.log.Info("scan finished",
		"processed", res.FilesProcessed,
		"matched", res.FilesMatched,
		"volumes_skipped", res.VolumesSkipped,
		"dirs_skipped", res.DirsSkipped,
		"files_skipped", res.FilesSkipped,
		"elapsed", elapsed.Round(time.Millisecond).String(),
		"files_per_second", fmt.Sprintf("%.1f", res.FilesPerSecond))

	return res, nil
}

// processFile hashes one file and records a finding on match. Every call
// increments FilesProcessed exactly once, matched or not, readable or not.
// Returns false when the file had to be skipped.
func (s *Scanner) processFile(fs evidence.Filesystem, path string, offset int64, stats *Stats, collector *Collector) bool {
	fh, err := fs.OpenFile(path)
	if err != nil {
		s.log.Warn("file skipped", "path", path, "stage", "open", "error", err)
		stats.FilesProcessed.Add(1)
		return false
	}
	defer fh.Close()

	md, err := fh.Metadata()
	if err != nil {
		s.log.Warn("file skipped", "path", path, "stage", "metadata", "error", err)
		stats.FilesProcessed.Add(1)
		return false
	}

	content, err := fh.ReadAll()
	if err != nil {
		s.log.Warn("file skipped", "path", path, "stage", "read", "error", err)
		stats.FilesProcessed.Add(1)
		return false
	}

	digests := ComputeDigests(content)

	// Processed before matched keeps matched ≤ processed at every sample.
	stats.FilesProcessed.Add(1)
	if hash, ok := digests.Match(s.targets); ok {
		s.log.Info("match found", "path", path, "hash", hash)
		collector.Record(path, hash, offset, md)
	}
	return true
}
