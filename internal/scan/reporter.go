package scan

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultRenderInterval is the cadence of the overwritten status line.
const DefaultRenderInterval = 200 * time.Millisecond

// DefaultLogInterval is the cadence of discrete progress log lines.
const DefaultLogInterval = time.Second

// Reporter renders a live status line while a scan runs. It only reads the
// atomic counters in Stats and never blocks the scanning worker.
//
// Lifecycle: Start launches the reporting goroutine; Stop signals it and
// blocks until it has rendered one final sample. The worker's last counter
// increments happen before Stop's channel close, so the final render always
// shows the true final counts.
type Reporter struct {
	stats          *Stats
	out            io.Writer
	log            *slog.Logger
	renderInterval time.Duration
	logInterval    time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewReporter creates a reporter writing the status line to out. Intervals
// ≤ 0 select the defaults; a nil logger uses slog.Default().
func NewReporter(stats *Stats, out io.Writer, log *slog.Logger, renderInterval, logInterval time.Duration) *Reporter {
	if log == nil {
		log = slog.Default()
	}
	if renderInterval <= 0 {
		renderInterval = DefaultRenderInterval
	}
	if logInterval <= 0 {
		logInterval = DefaultLogInterval
	}
	return &Reporter{
		stats:          stats,
		out:            out,
		log:            log,
		renderInterval: renderInterval,
		logInterval:    logInterval,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start prints the header and launches the reporting goroutine. It must be
// called at most once.
func (r *Reporter) Start() {
	fmt.Fprintf(r.out, "%-12s %12s %12s\n", "ELAPSED", "MATCHED", "PROCESSED")
	go r.run()
}

// Stop signals completion and waits for the final render. Idempotent;
// callers may defer it and also call it explicitly before reading counters.
func (r *Reporter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

func (r *Reporter) run() {
	defer close(r.done)

	render := time.NewTicker(r.renderInterval)
	defer render.Stop()
	progress := time.NewTicker(r.logInterval)
	defer progress.Stop()

	for {
		select {
		case <-render.C:
			r.render()
		case <-progress.C:
			r.log.Info("scan progress",
				"processed", r.stats.FilesProcessed.Load(),
				"matched", r.stats.FilesMatched.Load(),
				"elapsed", r.stats.Elapsed().Round(time.Second).String())
		case <-r.stop:
			r.render()
			fmt.Fprintln(r.out)
			return
		}
	}
}

// render overwrites the status line in place.
func (r *Reporter) render() {
	elapsed := r.stats.Elapsed().Round(100 * time.Millisecond)
	fmt.Fprintf(r.out, "\r%-12s %12s %12s",
		elapsed.String(),
		humanize.Comma(r.stats.FilesMatched.Load()),
		humanize.Comma(r.stats.FilesProcessed.Load()))
}
