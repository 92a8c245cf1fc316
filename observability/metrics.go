// Package observability owns the mutable counters shared by the concurrent
// row processors. The recorder is an explicit instance handed to the scheduler
// and processors; there is no ambient global state.
package observability

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// PipelineMetrics is a consistent point-in-time copy of the run counters.
// Counters are scoped to a single run: Reset is called when a run starts and
// the last snapshot stays available until the next one.
type PipelineMetrics struct {
	RowsTotal     uint64 `json:"rows_total"`
	RowsSucceeded uint64 `json:"rows_succeeded"`
	RowsFailed    uint64 `json:"rows_failed"`
	RetriesTotal  uint64 `json:"retries_total"`
	Users         int    `json:"users"`
	ElapsedMs     int64  `json:"elapsed_ms"`
}

// Recorder aggregates run counters with atomic increments so concurrent
// processors never lose updates and never contend on a lock.
type Recorder struct {
	log *slog.Logger

	rowsTotal     atomic.Uint64
	rowsSucceeded atomic.Uint64
	rowsFailed    atomic.Uint64
	retriesTotal  atomic.Uint64
	users         atomic.Int64
	startedAt     atomic.Int64 // unix nano, 0 when idle
	elapsedMs     atomic.Int64
}

func NewRecorder(log *slog.Logger) *Recorder {
	return &Recorder{log: log}
}

// Reset clears every counter and marks the start of a new run.
func (r *Recorder) Reset(rowsTotal int) {
	r.rowsTotal.Store(uint64(rowsTotal))
	r.rowsSucceeded.Store(0)
	r.rowsFailed.Store(0)
	r.retriesTotal.Store(0)
	r.users.Store(0)
	r.elapsedMs.Store(0)
	r.startedAt.Store(time.Now().UnixNano())
}

func (r *Recorder) IncrSucceeded() {
	r.rowsSucceeded.Add(1)
}

func (r *Recorder) IncrFailed() {
	r.rowsFailed.Add(1)
}

// IncrRetries satisfies retry.Meter.
func (r *Recorder) IncrRetries() {
	r.retriesTotal.Add(1)
}

func (r *Recorder) SetUsers(n int) {
	r.users.Store(int64(n))
}

// MarkDone freezes the elapsed time of the current run.
func (r *Recorder) MarkDone() {
	started := r.startedAt.Load()
	if started == 0 {
		return
	}
	elapsed := time.Since(time.Unix(0, started))
	r.elapsedMs.Store(elapsed.Milliseconds())
	r.log.Debug("Run counters frozen", "elapsed_ms", elapsed.Milliseconds())
}

// Snapshot returns a copy of the counters. Reading is wait-free; a snapshot
// taken mid-run reflects the progress so far.
func (r *Recorder) Snapshot() PipelineMetrics {
	elapsed := r.elapsedMs.Load()
	if elapsed == 0 {
		if started := r.startedAt.Load(); started != 0 {
			elapsed = time.Since(time.Unix(0, started)).Milliseconds()
		}
	}
	return PipelineMetrics{
		RowsTotal:     r.rowsTotal.Load(),
		RowsSucceeded: r.rowsSucceeded.Load(),
		RowsFailed:    r.rowsFailed.Load(),
		RetriesTotal:  r.retriesTotal.Load(),
		Users:         int(r.users.Load()),
		ElapsedMs:     elapsed,
	}
}

// Started reports whether at least one run has begun since process start.
func (r *Recorder) Started() bool {
	return r.startedAt.Load() != 0
}
