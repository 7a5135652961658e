// Package schema models the logical column schema of a loaded table and can
// infer one from sampled records when the job config carries no type hints.
package schema

import (
	"strconv"
	"strings"
	"time"

	"tabload/pkg/records"
)

// Field describes one logical column.
type Field struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"` // "int" | "float" | "bool" | "date" | "text"
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

// Table is an ordered logical schema.
type Table struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// FromTypes builds a schema for the given column order using explicit type
// hints. Columns without a hint default to text. Required columns must appear
// in the required list.
func FromTypes(name string, columns []string, types map[string]string, required []string) Table {
	req := make(map[string]struct{}, len(required))
	for _, c := range required {
		req[c] = struct{}{}
	}
	fields := make([]Field, len(columns))
	for i, c := range columns {
		typ := strings.ToLower(strings.TrimSpace(types[c]))
		if typ == "" {
			typ = "text"
		}
		_, isReq := req[c]
		fields[i] = Field{Name: c, Type: typ, Required: isReq}
	}
	return Table{Name: name, Fields: fields}
}

// Infer guesses a schema from a sample of records. A column's type is the
// narrowest one every non-null sampled value fits: int ⊂ float ⊂ text, with
// bool and date detected only when all values agree. Columns that never carry
// a value stay text.
func Infer(name string, columns []string, sample []records.Record, dateLayout string) Table {
	if dateLayout == "" {
		dateLayout = "2006-01-02"
	}
	fields := make([]Field, len(columns))
	for i, col := range columns {
		fields[i] = Field{Name: col, Type: inferColumn(col, sample, dateLayout)}
	}
	return Table{Name: name, Fields: fields}
}

func inferColumn(col string, sample []records.Record, layout string) string {
	seen := false
	isInt, isFloat, isBool, isDate := true, true, true, true

	for _, r := range sample {
		v, ok := r[col]
		if !ok || v == nil {
			continue
		}
		s, isStr := v.(string)
		if !isStr {
			// Already typed (coerced upstream); classify directly.
			switch v.(type) {
			case int, int64:
				seen = true
				isBool, isDate = false, false
				continue
			case float64:
				seen = true
				isInt, isBool, isDate = false, false, false
				continue
			case bool:
				seen = true
				isInt, isFloat, isDate = false, false, false
				continue
			case time.Time:
				seen = true
				isInt, isFloat, isBool = false, false, false
				continue
			default:
				return "text"
			}
		}
		seen = true
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			isFloat = false
		}
		if !isBoolWord(s) {
			isBool = false
		}
		if _, err := time.Parse(layout, s); err != nil {
			isDate = false
		}
		if !isInt && !isFloat && !isBool && !isDate {
			return "text"
		}
	}

	// int wins over bool so all-0/1 columns stay numeric.
	switch {
	case !seen:
		return "text"
	case isInt:
		return "int"
	case isBool:
		return "bool"
	case isFloat:
		return "float"
	case isDate:
		return "date"
	default:
		return "text"
	}
}

func isBoolWord(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "t", "f", "0", "1":
		return true
	}
	return false
}
