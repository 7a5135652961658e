// Package transformer defines the record transformation contract applied
// between parsing and loading.
package transformer

import "tabload/pkg/records"

// Transformer rewrites a batch of records in place and returns the batch,
// possibly shortened (transforms may drop records).
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers applied left to right.
type Chain []Transformer

// Apply runs every transformer in order.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
