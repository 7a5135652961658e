package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"tabload/internal/load"
	"tabload/internal/metrics"
	"tabload/internal/query"
	"tabload/pkg/records"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a filtered query against the loaded table",
	Long: `Query selects rows from the job's target table, filtered and ordered,
and writes them to stdout as CSV.

Filters combine with AND. Each --where takes one of:
  col=value          equality
  col=v1,v2,v3       membership
  col>value          strictly greater than

Examples:
  tabload query -c employees.yaml --where department=Engineering --sort salary --desc
  tabload query -c employees.yaml --where level=Senior,Staff --where "salary>100000"
  tabload query -c employees.yaml --count`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

var queryFlags struct {
	where     []string
	sortBy    string
	desc      bool
	countOnly bool
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringArrayVar(&queryFlags.where, "where", nil,
		"Filter expression (repeatable): col=value, col=v1,v2, or col>value")
	queryCmd.Flags().StringVar(&queryFlags.sortBy, "sort", "",
		"Column to order the result by")
	queryCmd.Flags().BoolVar(&queryFlags.desc, "desc", false,
		"Sort descending (with --sort)")
	queryCmd.Flags().BoolVar(&queryFlags.countOnly, "count", false,
		"Print only the matching row count")
}

func runQuery(cmd *cobra.Command, args []string) error {
	job, err := loadJob()
	if err != nil {
		return err
	}
	flush, err := setupMetrics()
	if err != nil {
		return err
	}
	defer flush()

	criteria, err := query.ParseCriteria(queryFlags.where)
	if err != nil {
		return err
	}

	repo, err := load.Open(cmd.Context(), job)
	if err != nil {
		return err
	}
	defer repo.Close()

	eng := query.NewEngine(repo, job.Target.Table)
	start := time.Now()

	if queryFlags.countOnly {
		n, err := eng.Count(cmd.Context(), criteria)
		metrics.RecordStep(job.Name, "query", err, time.Since(start))
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	}

	var sortBy *query.Sort
	if queryFlags.sortBy != "" {
		sortBy = &query.Sort{Column: queryFlags.sortBy, Descending: queryFlags.desc}
	}

	rows, err := eng.Select(cmd.Context(), criteria, sortBy)
	metrics.RecordStep(job.Name, "query", err, time.Since(start))
	if err != nil {
		return err
	}
	return writeRecordsCSV(os.Stdout, rows)
}

// writeRecordsCSV renders records as CSV with a header of the union of
// columns, sorted for a stable layout.
func writeRecordsCSV(w *os.File, rows []records.Record) error {
	if len(rows) == 0 {
		return nil
	}

	seen := map[string]bool{}
	var cols []string
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				cols = append(cols, col)
			}
		}
	}
	sort.Strings(cols)

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	line := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			line[i] = formatValue(row[col])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
