// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from an import run.
//
// The package exposes a narrow interface (Backend) focused on counters and
// timing data. A global, pluggable backend defaults to a no-op
// implementation, so instrumentation is always safe to call even when no real
// backend is configured. Concrete metric systems live in subpackages
// (prompush, datadog) and are installed once at startup with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the Record helpers.
const (
	StepTotal     = "steamload_step_total"
	StepDuration  = "steamload_step_duration_seconds"
	RowsTotal     = "steamload_rows_total"
	BatchesTotal  = "steamload_batches_total"
	IndexFailures = "steamload_index_failures_total"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

// Reset reinstalls the no-op backend.
func Reset() {
	mu.Lock()
	backend = nopBackend{}
	mu.Unlock()
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of a pipeline step and records its
// duration, labelled with success or failure.
func RecordStep(job, step string, err error, d time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow increments a row-level counter for the given job and kind.
//
// Kinds mirror the run summary: "read", "inserted", "duplicate", "failed".
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches increments a batch-level counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{
		"job": job,
	})
}

// RecordIndexFailures counts secondary indexes that could not be built.
func RecordIndexFailures(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(IndexFailures, float64(delta), Labels{
		"job": job,
	})
}
