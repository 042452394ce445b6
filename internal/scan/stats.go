package scan

import (
	"sync/atomic"
	"time"
)

// Stats holds the live scan counters. The scanning worker is the only
// writer; the progress reporter reads concurrently. Both counters are
// atomic so reads need no lock, and both only ever increase.
//
// FilesProcessed is always incremented before FilesMatched for the same
// file, so matched ≤ processed holds at every observation.
type Stats struct {
	FilesProcessed atomic.Int64
	FilesMatched   atomic.Int64

	startTime time.Time
}

// NewStats returns counters for one scan invocation, with the start time
// fixed at creation. Stats are per-scan rather than global so independent
// scans in one process never share counters.
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// StartTime returns the instant the scan began.
func (s *Stats) StartTime() time.Time { return s.startTime }

// Elapsed returns the time since the scan began.
func (s *Stats) Elapsed() time.Duration { return time.Since(s.startTime) }
