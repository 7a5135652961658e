// Package datadog implements a DogStatsD backend for the metrics package.
//
// Labels become Datadog tags ("key:value") and observations are forwarded to
// a local or remote agent via the official statsd client. Only this package
// depends on the Datadog client; everything else sees metrics.Backend.
package datadog

import (
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"

	"tabload/internal/metrics"
)

// Config holds Datadog backend configuration.
type Config struct {
	// Addr is the DogStatsD address, e.g. "127.0.0.1:8125" or "unix:///path/to/socket".
	Addr string

	// Namespace is an optional prefix for all metric names, e.g. "tabload.".
	Namespace string

	// GlobalTags are applied to every metric, e.g. []string{"env:prod"}.
	GlobalTags []string
}

// Backend adapts metrics.Backend onto a statsd.Client. Install it globally
// with metrics.SetBackend.
type Backend struct {
	client *statsd.Client
}

// NewBackend constructs a Datadog metrics backend. Addr is required.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}

	var opts []statsd.Option
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}
	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: create client: %w", err)
	}

	return &Backend{client: c}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	// DogStatsD counts are int64; fractional deltas are truncated.
	b.client.Count(name, int64(delta), labelsToTags(labels), 1)
}

func (b *Backend) ObserveDuration(name string, value float64, labels metrics.Labels) {
	b.client.Histogram(name, value, labelsToTags(labels), 1)
}

// Flush closes the client, which flushes any buffered data. Call it once at
// process shutdown.
func (b *Backend) Flush() error {
	return b.client.Close()
}

func labelsToTags(lbls metrics.Labels) []string {
	if len(lbls) == 0 {
		return nil
	}
	out := make([]string, 0, len(lbls))
	for k, v := range lbls {
		out = append(out, fmt.Sprintf("%s:%s", k, v))
	}
	return out
}
