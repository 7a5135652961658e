// Package analysis runs grouped aggregate reports over a loaded table:
// per-group summary statistics, multi-column distributions, and range
// bucketing of a numeric column.
//
// All SQL is generated against the repository's dialect, so the same engine
// serves every backend. Aggregating a non-numeric column is caught up front
// and reported as ErrNonNumeric instead of backend-specific behavior
// (SQLite, for one, will happily AVG text and return 0).
package analysis

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tabload/internal/ddl"
	"tabload/internal/storage"
)

// ErrNonNumeric reports that the column picked for aggregation holds
// non-numeric values.
var ErrNonNumeric = errors.New("analysis: column is not numeric")

// GroupStats is the summary for one group.
type GroupStats struct {
	// Keys holds the grouping column values, keyed by column name.
	Keys map[string]any

	Count int64
	Avg   float64
	Min   float64
	Max   float64
	Sum   float64
}

// BucketCount is the row count for one range bucket.
type BucketCount struct {
	Label string
	Count int64
}

// Bucket is one half-open range: rows with value < Below fall into the first
// bucket whose bound exceeds them. Buckets must be given in ascending Below
// order; rows at or above the last bound land in the catch-all label.
type Bucket struct {
	Label string
	Below float64
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("analysis: invalid column name %q", name)
	}
	return nil
}

// checkTable accepts schema-qualified names (dbo.employees) by validating
// each dotted segment on its own.
func checkTable(name string) error {
	for _, seg := range strings.Split(name, ".") {
		if !identPattern.MatchString(strings.TrimSpace(seg)) {
			return fmt.Errorf("analysis: invalid table name %q", name)
		}
	}
	return nil
}

// Engine runs aggregate reports against one table of a repository.
type Engine struct {
	repo  storage.Repository
	table string
}

// NewEngine returns an Engine bound to table.
func NewEngine(repo storage.Repository, table string) *Engine {
	return &Engine{repo: repo, table: table}
}

// tableSQL quotes the bound table name, segment by segment for
// schema-qualified names.
func (e *Engine) tableSQL() string {
	return ddl.QuoteFQN(e.table, e.repo.Dialect().QuoteIdent)
}

// GroupStats aggregates numericCol per distinct value of groupCol, ordered
// by the group value.
func (e *Engine) GroupStats(ctx context.Context, groupCol, numericCol string) ([]GroupStats, error) {
	if err := checkTable(e.table); err != nil {
		return nil, err
	}
	for _, c := range []string{groupCol, numericCol} {
		if err := checkIdent(c); err != nil {
			return nil, err
		}
	}
	if err := e.checkNumeric(ctx, numericCol); err != nil {
		return nil, err
	}

	d := e.repo.Dialect()
	g := d.QuoteIdent(groupCol)
	n := d.QuoteIdent(numericCol)
	sql := fmt.Sprintf(
		"SELECT %s, COUNT(*) AS cnt, AVG(%s) AS avg_v, MIN(%s) AS min_v, MAX(%s) AS max_v, SUM(%s) AS sum_v FROM %s GROUP BY %s ORDER BY %s",
		g, n, n, n, n, e.tableSQL(), g, g)

	rows, err := e.repo.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", e.table, err)
	}

	out := make([]GroupStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, GroupStats{
			Keys:  map[string]any{groupCol: row[groupCol]},
			Count: toInt64(row["cnt"]),
			Avg:   toFloat64(row["avg_v"]),
			Min:   toFloat64(row["min_v"]),
			Max:   toFloat64(row["max_v"]),
			Sum:   toFloat64(row["sum_v"]),
		})
	}
	return out, nil
}

// Distribution counts rows and averages numericCol per combination of
// groupCols, ordered by the group values.
func (e *Engine) Distribution(ctx context.Context, groupCols []string, numericCol string) ([]GroupStats, error) {
	if len(groupCols) == 0 {
		return nil, fmt.Errorf("analysis: distribution needs at least one grouping column")
	}
	if err := checkTable(e.table); err != nil {
		return nil, err
	}
	for _, c := range groupCols {
		if err := checkIdent(c); err != nil {
			return nil, err
		}
	}
	if err := checkIdent(numericCol); err != nil {
		return nil, err
	}
	if err := e.checkNumeric(ctx, numericCol); err != nil {
		return nil, err
	}

	d := e.repo.Dialect()
	quoted := make([]string, len(groupCols))
	for i, c := range groupCols {
		quoted[i] = d.QuoteIdent(c)
	}
	groupList := strings.Join(quoted, ", ")
	sql := fmt.Sprintf(
		"SELECT %s, COUNT(*) AS cnt, AVG(%s) AS avg_v FROM %s GROUP BY %s ORDER BY %s",
		groupList, d.QuoteIdent(numericCol), e.tableSQL(), groupList, groupList)

	rows, err := e.repo.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", e.table, err)
	}

	out := make([]GroupStats, 0, len(rows))
	for _, row := range rows {
		keys := make(map[string]any, len(groupCols))
		for _, c := range groupCols {
			keys[c] = row[c]
		}
		out = append(out, GroupStats{
			Keys:  keys,
			Count: toInt64(row["cnt"]),
			Avg:   toFloat64(row["avg_v"]),
		})
	}
	return out, nil
}

// RangeBuckets counts rows of numericCol per range bucket. Rows at or above
// the last bound are reported under catchAll. Buckets with no rows are
// returned with a zero count so the report shape is stable.
func (e *Engine) RangeBuckets(ctx context.Context, numericCol string, buckets []Bucket, catchAll string) ([]BucketCount, error) {
	if len(buckets) == 0 {
		return nil, fmt.Errorf("analysis: range report needs at least one bucket")
	}
	if err := checkTable(e.table); err != nil {
		return nil, err
	}
	if err := checkIdent(numericCol); err != nil {
		return nil, err
	}
	if err := e.checkNumeric(ctx, numericCol); err != nil {
		return nil, err
	}

	d := e.repo.Dialect()
	n := d.QuoteIdent(numericCol)

	// Bounds are rendered inline rather than bound as parameters: they come
	// from code, not user input, and a parameter inside a CASE arm trips up
	// type inference on some backends.
	var caseExpr strings.Builder
	caseExpr.WriteString("CASE")
	for _, b := range buckets {
		fmt.Fprintf(&caseExpr, " WHEN %s < %s THEN '%s'", n, formatBound(b.Below), escapeLabel(b.Label))
	}
	fmt.Fprintf(&caseExpr, " ELSE '%s' END", escapeLabel(catchAll))

	sql := fmt.Sprintf(
		"SELECT bucket, COUNT(*) AS cnt FROM (SELECT %s AS bucket FROM %s WHERE %s IS NOT NULL) AS ranged GROUP BY bucket",
		caseExpr.String(), e.tableSQL(), n)

	rows, err := e.repo.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", e.table, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[toString(row["bucket"])] = toInt64(row["cnt"])
	}

	out := make([]BucketCount, 0, len(buckets)+1)
	for _, b := range buckets {
		out = append(out, BucketCount{Label: b.Label, Count: counts[b.Label]})
	}
	out = append(out, BucketCount{Label: catchAll, Count: counts[catchAll]})
	return out, nil
}

// checkNumeric fetches one aggregate value of the column and inspects its
// scanned Go type. MIN works on every backend and on every column type, so
// a textual column surfaces here as a string rather than as a silent wrong
// answer later.
func (e *Engine) checkNumeric(ctx context.Context, col string) error {
	d := e.repo.Dialect()
	sql := fmt.Sprintf("SELECT MIN(%s) AS v FROM %s", d.QuoteIdent(col), e.tableSQL())
	rows, err := e.repo.Query(ctx, sql)
	if err != nil {
		return fmt.Errorf("analysis %s: %w", e.table, err)
	}
	if len(rows) == 0 {
		return nil
	}
	switch v := rows[0]["v"].(type) {
	case nil, int64, int32, int, float64, float32:
		return nil
	default:
		return fmt.Errorf("%w: column %q holds %T values", ErrNonNumeric, col, v)
	}
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// escapeLabel doubles single quotes so labels are safe inside the CASE
// string literals.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		out, _ := strconv.ParseInt(n, 10, 64)
		return out
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	case string:
		out, _ := strconv.ParseFloat(n, 64)
		return out
	default:
		return 0
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}
