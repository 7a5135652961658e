package metrics

import (
	"errors"
	"testing"
	"time"
)

type recordingBackend struct {
	counters  map[string]float64
	durations map[string]float64
	labels    map[string]Labels
	flushed   int
}

func newRecording() *recordingBackend {
	return &recordingBackend{
		counters:  map[string]float64{},
		durations: map[string]float64{},
		labels:    map[string]Labels{},
	}
}

func (r *recordingBackend) IncCounter(name string, delta float64, labels Labels) {
	r.counters[name] += delta
	r.labels[name] = labels
}

func (r *recordingBackend) ObserveDuration(name string, value float64, labels Labels) {
	r.durations[name] = value
}

func (r *recordingBackend) Flush() error {
	r.flushed++
	return nil
}

// install swaps the global backend for the test and restores the no-op after.
func install(t *testing.T) *recordingBackend {
	t.Helper()
	r := newRecording()
	SetBackend(r)
	t.Cleanup(func() { SetBackend(nopBackend{}) })
	return r
}

func TestRecordStep(t *testing.T) {
	r := install(t)

	RecordStep("employees", "load", nil, 2*time.Second)
	if r.counters["tabload_step_total"] != 1 {
		t.Fatalf("counter=%v", r.counters)
	}
	if got := r.labels["tabload_step_total"]["status"]; got != "success" {
		t.Fatalf("status=%q want success", got)
	}
	if r.durations["tabload_step_duration_seconds"] != 2 {
		t.Fatalf("duration=%v", r.durations)
	}

	RecordStep("employees", "load", errors.New("boom"), time.Second)
	if got := r.labels["tabload_step_total"]["status"]; got != "failure" {
		t.Fatalf("status=%q want failure", got)
	}
}

func TestRecordRowSkipsNonPositive(t *testing.T) {
	r := install(t)

	RecordRow("j", "inserted", 0)
	RecordRow("j", "inserted", -5)
	if len(r.counters) != 0 {
		t.Fatalf("counters=%v want none", r.counters)
	}

	RecordRow("j", "inserted", 42)
	if r.counters["tabload_records_total"] != 42 {
		t.Fatalf("counter=%v", r.counters)
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	r := install(t)

	SetBackend(nil)
	RecordBatches("j", 1)
	if r.counters["tabload_batches_total"] != 1 {
		t.Fatalf("nil SetBackend replaced the backend")
	}
}

func TestFlushDelegates(t *testing.T) {
	r := install(t)
	if err := Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if r.flushed != 1 {
		t.Fatalf("flushed=%d", r.flushed)
	}
}
