package builtin

import "tabload/pkg/records"

// Require drops records whose listed fields are nil or empty strings. Run it
// after Coerce so that coercion failures (which null the field) also count.
type Require struct {
	// Fields that must be present and non-null.
	Fields []string

	// OnDrop, when non-nil, is invoked once per dropped record.
	OnDrop func(r records.Record)
}

// Apply implements transformer.Transformer. The surviving records keep their
// relative order.
func (q Require) Apply(in []records.Record) []records.Record {
	if len(q.Fields) == 0 {
		return in
	}
	out := in[:0]
	for _, r := range in {
		if q.satisfied(r) {
			out = append(out, r)
			continue
		}
		if q.OnDrop != nil {
			q.OnDrop(r)
		}
	}
	return out
}

func (q Require) satisfied(r records.Record) bool {
	for _, f := range q.Fields {
		v, ok := r[f]
		if !ok || v == nil {
			return false
		}
		if s, isStr := v.(string); isStr && s == "" {
			return false
		}
	}
	return true
}
