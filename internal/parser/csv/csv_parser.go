// Package csv implements a streaming parser for delimited text files. It
// wraps encoding/csv with header normalization, null handling, and soft
// per-row error skipping, and never buffers the whole input.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"tabload/pkg/records"
)

// Options configures the parser. All fields are optional; zero values select
// sensible defaults.
type Options struct {
	// HasHeader indicates whether the first row names the columns. When
	// false, columns are synthesized as col_0, col_1, ...
	HasHeader bool

	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims surrounding whitespace from each field value.
	TrimSpace bool

	// ExpectedFields, when > 0, enforces a fixed field count per record. Rows
	// with a different width are skipped (soft-fail) and counted. When
	// HasHeader is true the header width takes precedence.
	ExpectedFields int

	// HeaderMap renames source headers to canonical keys before the generic
	// normalization runs. Only applies when HasHeader is true.
	HeaderMap map[string]string
}

// skipLogLimit caps how many skipped rows are individually logged per stream.
const skipLogLimit = 400

// Stream reads a delimited file row by row. The header (or synthesized
// column names) is consumed eagerly by NewStream so callers know the column
// set before the first data row.
//
// Rows that fail to parse or have the wrong width are skipped, counted, and
// logged (up to skipLogLimit lines); they never abort the stream. A Stream is
// not safe for concurrent use.
type Stream struct {
	cr      *csv.Reader
	opt     Options
	headers []string
	line    int
	skipped int
}

// NewStream wraps r and reads the header row when opt.HasHeader is set. A
// header read failure is fatal; an empty input without a header yields a
// stream whose column names appear once the first row fixes the width.
func NewStream(r io.Reader, opt Options) (*Stream, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	// Width is enforced here, after reading, so bad rows skip softly instead
	// of aborting the whole file.
	cr.FieldsPerRecord = -1

	s := &Stream{cr: cr, opt: opt}

	if opt.HasHeader {
		h, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		s.line = 1
		s.headers = NormalizeHeaders(h, opt.HeaderMap)
	} else if opt.ExpectedFields > 0 {
		s.headers = syntheticHeaders(opt.ExpectedFields)
	}

	return s, nil
}

// Columns returns the canonical column names in source order. The slice is
// shared; callers must not modify it.
func (s *Stream) Columns() []string { return s.headers }

// Skipped reports how many rows have been soft-skipped so far.
func (s *Stream) Skipped() int { return s.skipped }

// Next returns the next record, or io.EOF when the input is exhausted. Rows
// with parse errors or unexpected width are skipped transparently.
func (s *Stream) Next() (records.Record, error) {
	for {
		row, err := s.cr.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		s.line++
		if err != nil {
			s.skip(err)
			continue
		}

		// First headerless row fixes the width.
		if len(s.headers) == 0 {
			s.headers = syntheticHeaders(len(row))
		}
		if len(row) != len(s.headers) {
			s.skip(fmt.Errorf("expected %d fields, got %d", len(s.headers), len(row)))
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if s.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[s.headers[i]] = emptyToNil(val)
		}
		return rec, nil
	}
}

func (s *Stream) skip(err error) {
	if s.skipped < skipLogLimit {
		log.Printf("csv: skipping row %d: %v", s.line, err)
	}
	s.skipped++
}

// Parse consumes the whole input and returns the parsed rows along with the
// number of rows skipped. It is a convenience wrapper over Stream for small
// files and tests.
func Parse(r io.Reader, opt Options) ([]records.Record, int, error) {
	s, err := NewStream(r, opt)
	if err != nil {
		return nil, 0, err
	}
	var out []records.Record
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return out, s.Skipped(), nil
		}
		if err != nil {
			return out, s.Skipped(), err
		}
		out = append(out, rec)
	}
}

func syntheticHeaders(n int) []string {
	h := make([]string, n)
	for i := range h {
		h[i] = fmt.Sprintf("col_%d", i)
	}
	return h
}

// emptyToNil converts an empty string to nil (SQL NULL); everything else is
// returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
