// Package query builds and runs filtered reads against a loaded table.
//
// Criteria map column names to conditions; the generated SQL is always
// parameterized and uses the repository's dialect for placeholders and
// identifier quoting, so one builder serves every backend. Criteria columns
// are emitted in sorted order so identical criteria produce identical SQL.
package query

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"tabload/internal/ddl"
	"tabload/internal/storage"
	"tabload/pkg/records"
)

// Condition is one filter on a column. Exactly one of the constructors
// builds a valid Condition; the zero value matches nothing useful.
type Condition struct {
	op     string // "eq", "in", "gt"
	value  any
	values []any
}

// Eq matches rows where the column equals value.
func Eq(value any) Condition { return Condition{op: "eq", value: value} }

// In matches rows where the column is any of values.
func In(values ...any) Condition { return Condition{op: "in", values: values} }

// Gt matches rows where the column is strictly greater than value.
func Gt(value any) Condition { return Condition{op: "gt", value: value} }

// Criteria maps column names to conditions. All conditions must hold (AND).
type Criteria map[string]Condition

// Sort describes the optional ordering of a result set.
type Sort struct {
	Column     string
	Descending bool
}

// identPattern is the shape of a safe SQL identifier. Column names arrive
// from user criteria, not from the parser's normalized headers, so they are
// validated before ever reaching the statement text.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("query: invalid column name %q", name)
	}
	return nil
}

// checkTable accepts schema-qualified names (dbo.employees) by validating
// each dotted segment on its own.
func checkTable(name string) error {
	for _, seg := range strings.Split(name, ".") {
		if !identPattern.MatchString(strings.TrimSpace(seg)) {
			return fmt.Errorf("query: invalid table name %q", name)
		}
	}
	return nil
}

// Engine runs criteria queries against one table of a repository.
type Engine struct {
	repo  storage.Repository
	table string
}

// NewEngine returns an Engine bound to table.
func NewEngine(repo storage.Repository, table string) *Engine {
	return &Engine{repo: repo, table: table}
}

// Select returns the rows matching criteria, optionally ordered. A nil or
// empty criteria returns the whole table.
func (e *Engine) Select(ctx context.Context, criteria Criteria, sortBy *Sort) ([]records.Record, error) {
	sql, args, err := e.build(criteria, sortBy)
	if err != nil {
		return nil, err
	}
	rows, err := e.repo.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", e.table, err)
	}
	return rows, nil
}

// Count returns how many rows match criteria.
func (e *Engine) Count(ctx context.Context, criteria Criteria) (int64, error) {
	if err := checkTable(e.table); err != nil {
		return 0, err
	}
	where, args, err := e.buildWhere(criteria, 1)
	if err != nil {
		return 0, err
	}
	d := e.repo.Dialect()
	sql := "SELECT COUNT(*) AS n FROM " + ddl.QuoteFQN(e.table, d.QuoteIdent) + where
	rows, err := e.repo.Query(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", e.table, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return toInt64(rows[0]["n"]), nil
}

func (e *Engine) build(criteria Criteria, sortBy *Sort) (string, []any, error) {
	if err := checkTable(e.table); err != nil {
		return "", nil, err
	}
	d := e.repo.Dialect()

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(ddl.QuoteFQN(e.table, d.QuoteIdent))

	where, args, err := e.buildWhere(criteria, 1)
	if err != nil {
		return "", nil, err
	}
	b.WriteString(where)

	if sortBy != nil {
		if err := checkIdent(sortBy.Column); err != nil {
			return "", nil, err
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(d.QuoteIdent(sortBy.Column))
		if sortBy.Descending {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}
	return b.String(), args, nil
}

// buildWhere renders the WHERE clause with placeholders numbered from start.
// It returns an empty string for empty criteria.
func (e *Engine) buildWhere(criteria Criteria, start int) (string, []any, error) {
	if len(criteria) == 0 {
		return "", nil, nil
	}
	d := e.repo.Dialect()

	cols := make([]string, 0, len(criteria))
	for col := range criteria {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var terms []string
	var args []any
	n := start
	for _, col := range cols {
		if err := checkIdent(col); err != nil {
			return "", nil, err
		}
		cond := criteria[col]
		switch cond.op {
		case "eq":
			terms = append(terms, fmt.Sprintf("%s = %s", d.QuoteIdent(col), d.Placeholder(n)))
			args = append(args, cond.value)
			n++
		case "gt":
			terms = append(terms, fmt.Sprintf("%s > %s", d.QuoteIdent(col), d.Placeholder(n)))
			args = append(args, cond.value)
			n++
		case "in":
			if len(cond.values) == 0 {
				return "", nil, fmt.Errorf("query: empty IN list for column %q", col)
			}
			ph := make([]string, len(cond.values))
			for i, v := range cond.values {
				ph[i] = d.Placeholder(n)
				args = append(args, v)
				n++
			}
			terms = append(terms, fmt.Sprintf("%s IN (%s)", d.QuoteIdent(col), strings.Join(ph, ", ")))
		default:
			return "", nil, fmt.Errorf("query: column %q has no condition", col)
		}
	}
	return " WHERE " + strings.Join(terms, " AND "), args, nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		// Some drivers scan COUNT(*) as text.
		var out int64
		fmt.Sscan(n, &out)
		return out
	default:
		return 0
	}
}
