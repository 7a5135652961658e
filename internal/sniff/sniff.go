// Package sniff inspects a sample of a delimited file and guesses how to
// load it: the delimiter, the column set, and a logical schema. The probe
// command uses it to draft a job file for an unfamiliar input.
package sniff

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"tabload/internal/config"
	csvparser "tabload/internal/parser/csv"
	"tabload/internal/schema"
)

// DefaultMaxBytes caps how much of the input a sniff reads.
const DefaultMaxBytes = 256 * 1024

// candidates are the delimiters tried, in preference order for ties.
var candidates = []rune{',', ';', '\t', '|'}

// Report is the result of sniffing one input.
type Report struct {
	// Delimiter is the detected field separator.
	Delimiter rune

	// Columns are the normalized header names.
	Columns []string

	// Fields is the inferred logical schema of the sampled rows.
	Fields []schema.Field

	// RowsSampled counts the data rows that informed the inference.
	RowsSampled int
}

// Sniff reads up to maxBytes from r (DefaultMaxBytes when <= 0) and guesses
// delimiter and schema. The first row is assumed to be a header.
func Sniff(r io.Reader, maxBytes int) (*Report, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	sample, err := io.ReadAll(io.LimitReader(r, int64(maxBytes)))
	if err != nil {
		return nil, fmt.Errorf("sniff: read sample: %w", err)
	}
	if len(bytes.TrimSpace(sample)) == 0 {
		return nil, fmt.Errorf("sniff: input is empty")
	}

	delim := detectDelimiter(sample)

	recs, _, err := csvparser.Parse(bytes.NewReader(trimPartialLastLine(sample)), csvparser.Options{
		HasHeader: true,
		Comma:     delim,
		TrimSpace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sniff: parse sample: %w", err)
	}

	stream, err := csvparser.NewStream(bytes.NewReader(sample), csvparser.Options{
		HasHeader: true,
		Comma:     delim,
	})
	if err != nil {
		return nil, fmt.Errorf("sniff: read header: %w", err)
	}
	columns := stream.Columns()

	tbl := schema.Infer("sample", columns, recs, "")
	return &Report{
		Delimiter:   delim,
		Columns:     columns,
		Fields:      tbl.Fields,
		RowsSampled: len(recs),
	}, nil
}

// SuggestJob drafts a job config for the sniffed input: sqlite target,
// append mode, type hints for every non-text column.
func (rep *Report) SuggestJob(name, path, table string) config.Job {
	types := make(map[string]string)
	for _, f := range rep.Fields {
		if f.Type != "text" {
			types[f.Name] = f.Type
		}
	}
	if len(types) == 0 {
		types = nil
	}
	j := config.Job{
		Name: name,
		Source: config.Source{
			Path:      path,
			Delimiter: string(rep.Delimiter),
			Header:    true,
		},
		Target: config.Target{
			Driver:          "sqlite",
			DSN:             name + ".db",
			Table:           table,
			AutoCreateTable: true,
		},
		Types: types,
	}
	j.Normalize()
	return j
}

// DecodeDelimiter converts a user-supplied string into a single rune,
// defaulting to ',' for empty or invalid input.
func DecodeDelimiter(s string) rune {
	if s == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// detectDelimiter scores each candidate by its count in the first line,
// keeping only candidates whose count stays consistent across the sampled
// lines. Highest consistent count wins; ties keep candidate order.
func detectDelimiter(sample []byte) rune {
	lines := sampleLines(sample, 10)
	if len(lines) == 0 {
		return ','
	}

	best := ','
	bestCount := -1
	for _, cand := range candidates {
		first := strings.Count(lines[0], string(cand))
		if first == 0 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			// Quoted fields make exact matching unreliable; allow counts to
			// grow but not shrink below the header's.
			if strings.Count(line, string(cand)) < first {
				consistent = false
				break
			}
		}
		if consistent && first > bestCount {
			best = cand
			bestCount = first
		}
	}
	return best
}

// sampleLines returns up to n complete lines from the sample, dropping a
// trailing partial line cut off by the byte limit.
func sampleLines(sample []byte, n int) []string {
	raw := strings.Split(string(trimPartialLastLine(sample)), "\n")
	var out []string
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

func trimPartialLastLine(sample []byte) []byte {
	i := bytes.LastIndexByte(sample, '\n')
	if i < 0 {
		return sample
	}
	return sample[:i+1]
}
