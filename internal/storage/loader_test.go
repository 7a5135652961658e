package storage_test

import (
	"context"
	"errors"
	"testing"

	"tabload/internal/storage"
	"tabload/pkg/records"
)

// feed pushes records into a fresh channel and closes it.
func feed(recs ...records.Record) <-chan records.Record {
	ch := make(chan records.Record, len(recs))
	for _, r := range recs {
		ch <- r
	}
	close(ch)
	return ch
}

func TestLoadBatchesFlushesInBatches(t *testing.T) {
	t.Parallel()

	var calls [][][]any
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		cp := make([][]any, len(rows))
		copy(cp, rows)
		calls = append(calls, cp)
		return int64(len(rows)), nil
	}

	in := feed(
		records.Record{"id": "1", "name": "a"},
		records.Record{"id": "2", "name": "b"},
		records.Record{"id": "3", "name": "c"},
	)

	total, err := storage.LoadBatches(context.Background(), []string{"id", "name"}, in, 2, copyFn)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if total != 3 {
		t.Fatalf("total=%d want 3", total)
	}
	if len(calls) != 2 || len(calls[0]) != 2 || len(calls[1]) != 1 {
		t.Fatalf("batch shapes: %d calls", len(calls))
	}
	// row values follow the columns order
	if calls[0][0][0] != "1" || calls[0][0][1] != "a" {
		t.Fatalf("row=%v", calls[0][0])
	}
}

func TestLoadBatchesMissingColumnsAreNil(t *testing.T) {
	t.Parallel()

	var got [][]any
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		got = append(got, rows...)
		return int64(len(rows)), nil
	}

	in := feed(records.Record{"id": "1"})
	if _, err := storage.LoadBatches(context.Background(), []string{"id", "name"}, in, 10, copyFn); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got[0][1] != nil {
		t.Fatalf("missing column=%v want nil", got[0][1])
	}
}

func TestLoadBatchesPropagatesCopyError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		return 0, boom
	}

	in := feed(records.Record{"id": "1"})
	_, err := storage.LoadBatches(context.Background(), []string{"id"}, in, 1, copyFn)
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v want boom", err)
	}
}

func TestLoadBatchesContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan records.Record) // never closed, never written
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		return int64(len(rows)), nil
	}

	_, err := storage.LoadBatches(ctx, []string{"id"}, in, 1, copyFn)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
}

func TestLoadBatchesRejectsBadArgs(t *testing.T) {
	t.Parallel()

	if _, err := storage.LoadBatches(context.Background(), nil, feed(), 0, nil); err == nil {
		t.Error("batchSize 0 accepted")
	}
	if _, err := storage.LoadBatches(context.Background(), nil, feed(), 1, nil); err == nil {
		t.Error("nil copyFn accepted")
	}
}
