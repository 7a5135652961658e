// Package httpsrc implements an HTTP-backed data source, so a job's source
// path can be a URL instead of a local file. Transient failures (5xx, 429,
// transport errors) retry with exponential backoff; anything else is final.
package httpsrc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config tunes the HTTP source. Zero values select the defaults noted per
// field.
type Config struct {
	// Timeout is the per-request timeout. Default 30s.
	Timeout time.Duration

	// MaxRetries is how many times a transient failure is retried after the
	// initial attempt. Default 3.
	MaxRetries int

	// InitialBackoff is the wait before the first retry; it doubles per
	// attempt up to MaxBackoff. Defaults 200ms and 5s.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Client overrides the http.Client, mainly for tests.
	Client *http.Client
}

// Remote fetches a job's source bytes over HTTP.
type Remote struct {
	url     string
	cfg     Config
	client  *http.Client
	retries int
}

// New returns a Remote source for url.
func New(url string, cfg Config) *Remote {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Remote{url: url, cfg: cfg, client: client, retries: cfg.MaxRetries}
}

// URL returns the URL this source reads from.
func (r *Remote) URL() string { return r.url }

// Open issues a GET for the URL and returns the response body. The caller
// owns the body. Retryable failures back off and try again up to the
// configured attempt budget.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	var lastErr error

	for attempt := 0; attempt <= r.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
		if err != nil {
			return nil, fmt.Errorf("httpsrc: build request: %w", err)
		}

		resp, err := r.client.Do(req)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode == http.StatusOK:
			return resp.Body, nil
		case retryable(resp.StatusCode):
			resp.Body.Close()
			lastErr = fmt.Errorf("httpsrc: status %d from %s", resp.StatusCode, r.url)
		default:
			resp.Body.Close()
			return nil, fmt.Errorf("httpsrc: status %d from %s", resp.StatusCode, r.url)
		}

		if attempt == r.retries {
			break
		}
		if err := wait(ctx, backoff(r.cfg.InitialBackoff, attempt, r.cfg.MaxBackoff)); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("httpsrc: giving up after %d attempts: %w", r.retries+1, lastErr)
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

func backoff(initial time.Duration, attempt int, max time.Duration) time.Duration {
	d := initial << attempt
	if d > max || d <= 0 {
		return max
	}
	return d
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
