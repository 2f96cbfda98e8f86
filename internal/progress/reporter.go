package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalRecords is the number of records dispatched this run.
	TotalRecords int

	// Workers is the number of parallel fetch workers.
	Workers int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration

	// Gateway is the gateway base URL being fetched from (for display).
	Gateway string
}

// Reporter outputs human-readable progress information.
type Reporter struct {
	opts Options

	mu         sync.Mutex
	completed  atomic.Int32
	failed     atomic.Int32
	inFlight   atomic.Int32
	bytes      atomic.Int64
	startTime  time.Time
	lastUpdate time.Time
	lastBytes  int64
	stopCh     chan struct{}
	stopped    bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()
	r.lastUpdate = r.startTime

	fmt.Fprintf(r.opts.Output, "[haven2llava] Fetching via: %s\n", r.opts.Gateway)
	fmt.Fprintf(r.opts.Output, "[haven2llava] Records: %d | Workers: %d\n",
		r.opts.TotalRecords,
		r.opts.Workers,
	)

	go r.updateLoop()
}

// Stop stops the progress reporter.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// RecordStarted marks a record fetch as in flight.
func (r *Reporter) RecordStarted() {
	r.inFlight.Add(1)
}

// RecordCompleted marks a record as fetched, with the image size.
func (r *Reporter) RecordCompleted(size int64) {
	r.bytes.Add(size)
	r.completed.Add(1)
	r.inFlight.Add(-1)
}

// RecordFailed marks a record as failed (absent or retries exhausted).
func (r *Reporter) RecordFailed() {
	r.failed.Add(1)
	r.inFlight.Add(-1)
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	now := time.Now()
	completed := int(r.completed.Load())
	failed := int(r.failed.Load())
	inFlight := int(r.inFlight.Load())
	bytes := r.bytes.Load()

	elapsed := now.Sub(r.lastUpdate).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(bytes-r.lastBytes) / elapsed

	r.lastUpdate = now
	r.lastBytes = bytes

	var percent float64
	if r.opts.TotalRecords > 0 {
		percent = float64(completed+failed) / float64(r.opts.TotalRecords) * 100
	}

	pending := r.opts.TotalRecords - completed - failed - inFlight
	if pending < 0 {
		pending = 0
	}

	fmt.Fprintf(r.opts.Output, "\r[haven2llava] Progress: %.1f%% | %d fetched | %d skipped | %s | %s/s    ",
		percent,
		completed,
		failed,
		formatBytes(bytes),
		formatBytes(int64(speed)),
	)
	fmt.Fprintf(r.opts.Output, "\n[haven2llava] Records: %d in-flight | %d pending    \033[A",
		inFlight,
		pending,
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	completed := int(r.completed.Load())
	failed := int(r.failed.Load())
	bytes := r.bytes.Load()
	duration := time.Since(r.startTime)
	avgSpeed := float64(bytes) / duration.Seconds()

	fmt.Fprintf(r.opts.Output, "\r[haven2llava] Done: %d fetched | %d skipped | %s total    \n",
		completed,
		failed,
		formatBytes(bytes),
	)
	fmt.Fprintf(r.opts.Output, "[haven2llava] Total time: %s | Average speed: %s/s\n",
		formatDuration(duration),
		formatBytes(int64(avgSpeed)),
	)
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
