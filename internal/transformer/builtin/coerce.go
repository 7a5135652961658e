// Package builtin contains the reusable record transformers shipped with
// tabload: type coercion and required-field filtering. Transforms run on a
// batch at a time and mutate records in place.
package builtin

import (
	"strconv"
	"strings"
	"time"

	"tabload/pkg/records"
)

// Coerce converts string field values into typed values according to a
// per-column logical type map. Values that fail to convert are set to nil
// rather than kept as text, so a numeric database column never receives a
// stray string.
type Coerce struct {
	// Types maps column name to one of: int, integer, bigint, float, double,
	// real, bool, boolean, date, datetime, timestamp, text, string.
	Types map[string]string

	// Layout is the date layout for "date"-family types. Defaults to
	// "2006-01-02" when empty.
	Layout string
}

// Apply implements transformer.Transformer.
func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	layout := c.Layout
	if layout == "" {
		layout = "2006-01-02"
	}
	for _, r := range in {
		for field, typ := range c.Types {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue // already typed by an earlier transform
			}
			switch strings.ToLower(strings.TrimSpace(typ)) {
			case "int", "integer", "bigint":
				if i, err := strconv.ParseInt(s, 10, 64); err == nil {
					r[field] = i
				} else {
					r[field] = nil
				}
			case "float", "double", "real":
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					r[field] = f
				} else {
					r[field] = nil
				}
			case "bool", "boolean":
				if b, err := strconv.ParseBool(s); err == nil {
					r[field] = b
				} else {
					r[field] = nil
				}
			case "date", "datetime", "timestamp":
				if t, err := time.Parse(layout, s); err == nil {
					r[field] = t
				} else {
					r[field] = nil
				}
			default:
				// text/string: keep as-is
			}
		}
	}
	return in
}
