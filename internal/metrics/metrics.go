// Package metrics is a small, pluggable abstraction for recording
// operational metrics from the load, query, and analyze paths.
//
// A global backend defaults to a no-op, so instrumentation calls are always
// safe even when nothing is configured. Concrete systems (Prometheus
// Pushgateway, Datadog) live in subpackages and are installed via
// SetBackend, mirroring the registration pattern of the storage layer.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal surface a metrics system has to provide.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a latency style value.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes buffered metrics if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the current one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures one top-level operation: latency plus success or
// failure, per job and step ("load", "query", "analyze").
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter("tabload_step_total", 1, lbls)
	backend.ObserveDuration("tabload_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRow increments a record-level counter for the given job and kind.
//
// Kinds mirror the load summary fields: "inserted", "parse_skipped",
// "require_dropped".
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("tabload_records_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches counts bulk-insert batches flushed for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("tabload_batches_total", float64(delta), Labels{
		"job": job,
	})
}
