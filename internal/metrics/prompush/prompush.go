// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// Loads are short-lived batch runs, so metrics are pushed to a Pushgateway
// at exit rather than exposed on a scrape endpoint. All Prometheus
// dependencies stay inside this package; the rest of the code sees only
// metrics.Backend.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"tabload/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" grouping key
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // tabload_step_total
	stepDuration *prometheus.SummaryVec // tabload_step_duration_seconds

	recordCounter *prometheus.CounterVec // tabload_records_total
	batchCounter  prometheus.Counter     // tabload_batches_total
}

// NewBackend constructs a Pushgateway backend. jobName becomes the
// Pushgateway grouping key; gatewayURL is required.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "tabload"
	}

	reg := prometheus.NewRegistry()

	// The job label is the Pushgateway grouping key, so the collectors only
	// carry step, status, and kind.
	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabload_step_total",
			Help: "Operations run, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "tabload_step_duration_seconds",
			Help:       "Operation duration in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabload_records_total",
			Help: "Record-level counts per kind (inserted, parse_skipped, require_dropped).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tabload_batches_total",
			Help: "Bulk-insert batches flushed by this job.",
		},
	)

	for _, c := range []prometheus.Collector{stepCounter, stepDuration, recordCounter, batchCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stepCounter:   stepCounter,
		stepDuration:  stepDuration,
		recordCounter: recordCounter,
		batchCounter:  batchCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "tabload_step_total":
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case "tabload_records_total":
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)
	case "tabload_batches_total":
		b.batchCounter.Add(delta)
	}
}

func (b *Backend) ObserveDuration(name string, value float64, labels metrics.Labels) {
	if name != "tabload_step_duration_seconds" {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
