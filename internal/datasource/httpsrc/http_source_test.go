package httpsrc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestOpenOK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "id,name\n1,Alice\n")
	}))
	t.Cleanup(srv.Close)

	rc, err := New(srv.URL, fastConfig()).Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "id,name") {
		t.Fatalf("data=%q", data)
	}
}

func TestOpenRetriesTransient(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, "ok")
	}))
	t.Cleanup(srv.Close)

	rc, err := New(srv.URL, fastConfig()).Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rc.Close()
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls=%d want 3", got)
	}
}

func TestOpenFinalStatusIsFatal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	if _, err := New(srv.URL, fastConfig()).Open(context.Background()); err == nil {
		t.Fatal("expected error for 404")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls=%d want 1 (no retry on 404)", got)
	}
}

func TestOpenGivesUpAfterBudget(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, fastConfig()).Open(context.Background())
	if err == nil || !strings.Contains(err.Error(), "giving up") {
		t.Fatalf("err=%v", err)
	}
}

func TestOpenCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New("http://127.0.0.1:0", fastConfig()).Open(ctx); err != context.Canceled {
		t.Fatalf("err=%v want context.Canceled", err)
	}
}
