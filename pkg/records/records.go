// Package records defines the row representation shared by the parser,
// transformer, loader, and query layers.
//
// A Record is a mapping from canonical column name to a scalar value. Values
// are whatever the parser or a transform left behind: string, int64, float64,
// bool, time.Time, or nil for null/absent fields. Records carry no identity
// beyond their position in the source file and are treated as immutable once
// they leave the load path.
package records

// Record is a single row keyed by canonical column name. A nil value means
// the source field was empty (SQL NULL on write).
type Record map[string]any

// Columns returns the record's column names in unspecified order. Callers
// that need a stable order should sort the result or use an external column
// list (e.g., the target table's column order).
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	return cols
}

// Values extracts the record's values aligned to the given column order.
// Missing columns yield nil, matching NULL semantics on insert.
func (r Record) Values(columns []string) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = r[c]
	}
	return out
}

// Clone returns a shallow copy of the record. Scalar values are copied by
// assignment; Records never hold nested containers.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
