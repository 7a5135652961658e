// Package load orchestrates one load: open the source file, stream-parse it,
// coerce and filter records, and bulk-insert them into the target table
// honoring the configured append-or-replace mode.
//
// The pipeline is two stages connected by a bounded channel: a producer
// goroutine parses and transforms records, and the loader drains them into
// batched bulk inserts. Back-pressure via the channel keeps peak memory
// around O(batch + buffer).
package load

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"tabload/internal/config"
	"tabload/internal/datasource"
	"tabload/internal/metrics"
	csvparser "tabload/internal/parser/csv"
	"tabload/internal/schema"
	"tabload/internal/storage"
	"tabload/internal/transformer"
	"tabload/internal/transformer/builtin"
	"tabload/pkg/records"
)

// sampleSize is how many records are buffered up front for schema inference
// when the job carries no explicit type hints.
const sampleSize = 200

// Summary reports what one load did.
type Summary struct {
	// Rows is the number of rows the backend reported as inserted.
	Rows int64

	// Skipped counts source rows dropped by the parser (malformed or wrong
	// width).
	Skipped int

	// Dropped counts records dropped for missing required fields.
	Dropped int64

	// Columns is the destination column order used for the insert.
	Columns []string

	// Fingerprint is the xxh3 hash of the source file's bytes.
	Fingerprint uint64

	// Elapsed is the wall time of the whole load.
	Elapsed time.Duration
}

// Open resolves the job's target DSN and opens its storage repository. The
// query and analyze commands share it with the load path.
func Open(ctx context.Context, job *config.Job) (storage.Repository, error) {
	dsn, err := job.Target.Resolve()
	if err != nil {
		return nil, err
	}
	return storage.New(ctx, storage.Config{
		Driver:  job.Target.Driver,
		DSN:     dsn,
		Table:   job.Target.Table,
		Columns: job.Target.Columns,
	})
}

// Run executes the load described by job. The returned Summary is valid only
// when err is nil.
func Run(ctx context.Context, job *config.Job) (*Summary, error) {
	start := time.Now()

	src := datasource.ForPath(job.Source.Path)
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()
	fp := datasource.NewFingerprint(rc)

	stream, err := csvparser.NewStream(fp, csvparser.Options{
		HasHeader: job.Source.Header,
		Comma:     job.Source.DelimiterRune(),
		TrimSpace: job.Source.TrimSpace,
		HeaderMap: job.Source.HeaderMap,
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", job.Source.Path, err)
	}

	// Buffer a sample so the column set and (when no hints are configured)
	// the column types are known before the table is created.
	sample, sampleErr := readSample(stream, sampleSize)
	if sampleErr != nil && sampleErr != io.EOF {
		return nil, fmt.Errorf("parse %s: %w", job.Source.Path, sampleErr)
	}

	columns := job.Target.Columns
	if len(columns) == 0 {
		columns = stream.Columns()
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no columns: source %s is empty and target.columns is not set", job.Source.Path)
	}

	tbl, types := resolveSchema(job, columns, sample)

	repo, err := Open(ctx, job)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	if job.Target.AutoCreateTable {
		if err := storage.EnsureTable(ctx, job.Target.Driver, repo, tbl); err != nil {
			return nil, fmt.Errorf("create table %s: %w", job.Target.Table, err)
		}
	}
	if job.Target.Mode == config.ModeReplace {
		if err := repo.Truncate(ctx); err != nil {
			return nil, fmt.Errorf("replace mode: %w", err)
		}
	}

	sum := &Summary{Columns: columns}

	chain := transformer.Chain{
		builtin.Coerce{Types: types, Layout: job.DateLayout},
		builtin.Require{Fields: job.Required, OnDrop: func(records.Record) { sum.Dropped++ }},
	}

	out := make(chan records.Record, job.Runtime.Buffer)

	g, gctx := errgroup.WithContext(ctx)

	// Producer: replay the sample, then drain the rest of the stream.
	g.Go(func() error {
		defer close(out)

		emit := func(rec records.Record) error {
			for _, r := range chain.Apply([]records.Record{rec}) {
				select {
				case out <- r:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		}

		for _, rec := range sample {
			if err := emit(rec); err != nil {
				return err
			}
		}
		if sampleErr == io.EOF {
			return nil
		}
		for {
			rec, err := stream.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", job.Source.Path, err)
			}
			if err := emit(rec); err != nil {
				return err
			}
		}
	})

	// Loader: batched bulk inserts.
	g.Go(func() error {
		n, err := storage.LoadBatches(gctx, columns, out, job.Runtime.BatchSize, repo.CopyFrom)
		sum.Rows = n
		if err != nil {
			return fmt.Errorf("load into %s: %w", job.Target.Table, err)
		}
		return nil
	})

	err = g.Wait()
	sum.Skipped = stream.Skipped()
	sum.Fingerprint = fp.Sum64()
	sum.Elapsed = time.Since(start)

	metrics.RecordStep(job.Name, "load", err, sum.Elapsed)
	metrics.RecordRow(job.Name, "inserted", sum.Rows)
	metrics.RecordRow(job.Name, "parse_skipped", int64(sum.Skipped))
	metrics.RecordRow(job.Name, "require_dropped", sum.Dropped)

	if err != nil {
		return nil, err
	}

	log.Printf("load: job=%s table=%s rows=%d skipped=%d dropped=%d fingerprint=%016x elapsed=%s",
		job.Name, job.Target.Table, sum.Rows, sum.Skipped, sum.Dropped, sum.Fingerprint,
		sum.Elapsed.Truncate(time.Millisecond))
	return sum, nil
}

// readSample pulls up to n records off the stream. The second return is
// io.EOF when the stream ended inside the sample.
func readSample(s *csvparser.Stream, n int) ([]records.Record, error) {
	var sample []records.Record
	for len(sample) < n {
		rec, err := s.Next()
		if err == io.EOF {
			return sample, io.EOF
		}
		if err != nil {
			return sample, err
		}
		sample = append(sample, rec)
	}
	return sample, nil
}

// resolveSchema decides the logical schema: explicit type hints win; without
// them the sample drives inference, and the inferred types also feed the
// coercion chain so loaded values are typed consistently with the DDL.
func resolveSchema(job *config.Job, columns []string, sample []records.Record) (schema.Table, map[string]string) {
	if len(job.Types) > 0 {
		return schema.FromTypes(job.Target.Table, columns, job.Types, job.Required), job.Types
	}
	tbl := schema.Infer(job.Target.Table, columns, sample, job.DateLayout)
	required := make(map[string]bool, len(job.Required))
	for _, name := range job.Required {
		required[name] = true
	}
	for i := range tbl.Fields {
		if required[tbl.Fields[i].Name] {
			tbl.Fields[i].Required = true
		}
	}
	types := make(map[string]string, len(tbl.Fields))
	for _, f := range tbl.Fields {
		if f.Type != "text" {
			types[f.Name] = f.Type
		}
	}
	return tbl, types
}
