package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"tabload/pkg/records"
)

// CopyFn abstracts a backend's bulk insert. Implementations insert the rows
// (aligned to the columns order), return the number of rows inserted, and
// cancel promptly when ctx is done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains records from in, groups them into batches of batchSize
// aligned to the columns order, and calls copyFn per non-empty batch. It
// returns the total rows reported by copyFn together with the first error.
//
// On cancellation it returns (total, ctx.Err()). Every successful flush logs
// a progress line with running totals and instantaneous rows/sec.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan records.Record,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		batch       = make([][]any, 0, batchSize)
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		batch = batch[:0] // keep capacity

		if err != nil {
			log.Printf("loader: bulk insert failed inserted=%d total=%d err=%v", n, total, err)
			return err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total-lastTotal) / sinceLast.Seconds()
		}
		log.Printf(
			"batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s",
			batches, rps, n, total, now.Sub(start).Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case rec, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				log.Printf("loader: input closed total_inserted=%d batches=%d", total, batches)
				return total, nil
			}
			batch = append(batch, rec.Values(columns))
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
