package query

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCriteria turns command-line filter expressions into Criteria.
//
// Supported forms:
//
//	col=value            equality
//	col=v1,v2,v3         membership (IN)
//	col>value            strictly greater than
//
// Values that look numeric are passed to the database as numbers so typed
// columns compare correctly on every backend.
func ParseCriteria(exprs []string) (Criteria, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	c := make(Criteria, len(exprs))
	for _, expr := range exprs {
		col, cond, err := parseExpr(expr)
		if err != nil {
			return nil, err
		}
		if _, dup := c[col]; dup {
			return nil, fmt.Errorf("query: duplicate filter for column %q", col)
		}
		c[col] = cond
	}
	return c, nil
}

func parseExpr(expr string) (string, Condition, error) {
	// ">" before "=" so "col>=x" is rejected rather than parsed as
	// equality on a column named "col>".
	if i := strings.Index(expr, ">"); i > 0 {
		col := strings.TrimSpace(expr[:i])
		val := strings.TrimSpace(expr[i+1:])
		if strings.HasPrefix(val, "=") {
			return "", Condition{}, fmt.Errorf("query: filter %q: only strict > is supported, not >=", expr)
		}
		if val == "" {
			return "", Condition{}, fmt.Errorf("query: filter %q has no value", expr)
		}
		return col, Gt(coerceValue(val)), nil
	}

	i := strings.Index(expr, "=")
	if i <= 0 {
		return "", Condition{}, fmt.Errorf("query: filter %q is not of the form col=value or col>value", expr)
	}
	col := strings.TrimSpace(expr[:i])
	val := strings.TrimSpace(expr[i+1:])
	if val == "" {
		return "", Condition{}, fmt.Errorf("query: filter %q has no value", expr)
	}

	if strings.Contains(val, ",") {
		parts := strings.Split(val, ",")
		vals := make([]any, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				return "", Condition{}, fmt.Errorf("query: filter %q has an empty list element", expr)
			}
			vals = append(vals, coerceValue(p))
		}
		return col, In(vals...), nil
	}
	return col, Eq(coerceValue(val)), nil
}

// coerceValue passes numeric-looking values as numbers.
func coerceValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
