// Package metrics records operational metrics from the pipeline through a
// small, pluggable Backend.
//
// The default backend is a no-op so instrumentation is always safe to call.
// Concrete systems live in subpackages (prompush, datadog) and are installed
// with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the helpers below.
const (
	StageTotal           = "ml100k_stage_total"
	StageDurationSeconds = "ml100k_stage_duration_seconds"
	RowsTotal            = "ml100k_rows_total"
	WriteRetriesTotal    = "ml100k_write_retries_total"
)

// Row kinds for RecordRows.
const (
	KindIngested  = "ingested"
	KindPersisted = "persisted"
	KindViolation = "violation"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration-style value.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b. Passing nil restores the no-op backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStage records one execution of a pipeline stage with its outcome
// and latency.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "stage": stage, "status": status}

	b := current()
	b.IncCounter(StageTotal, 1, lbls)
	b.ObserveHistogram(StageDurationSeconds, d.Seconds(), lbls)
}

// RecordRows adds n rows of the given kind for a table or source file.
func RecordRows(job, kind, table string, n int64) {
	if n <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(n), Labels{"job": job, "kind": kind, "table": table})
}

// RecordRetry counts one retried write against table.
func RecordRetry(job, table string) {
	current().IncCounter(WriteRetriesTotal, 1, Labels{"job": job, "table": table})
}
