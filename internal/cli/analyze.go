package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tabload/internal/analysis"
	"tabload/internal/load"
	"tabload/internal/metrics"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run grouped aggregate reports on the loaded table",
	Long: `Analyze computes aggregate statistics over the job's target table.

One --group column produces count, average, min, max, and sum of the metric
column per group. Two or more --group columns produce a distribution with
count and average per combination. --ranges buckets the metric column by the
given ascending bounds instead of grouping.

Examples:
  tabload analyze -c employees.yaml --group department --metric salary
  tabload analyze -c employees.yaml --group department --group level --metric salary
  tabload analyze -c employees.yaml --metric salary --ranges 50000,100000,150000`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var analyzeFlags struct {
	groups []string
	metric string
	ranges []float64
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringArrayVar(&analyzeFlags.groups, "group", nil,
		"Column to group by (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.metric, "metric", "",
		"Numeric column to aggregate")
	analyzeCmd.Flags().Float64SliceVar(&analyzeFlags.ranges, "ranges", nil,
		"Ascending bounds for range bucketing, e.g. 50000,100000,150000")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	job, err := loadJob()
	if err != nil {
		return err
	}
	if analyzeFlags.metric == "" {
		return fmt.Errorf("--metric is required")
	}
	if len(analyzeFlags.groups) == 0 && len(analyzeFlags.ranges) == 0 {
		return fmt.Errorf("either --group or --ranges is required")
	}

	flush, err := setupMetrics()
	if err != nil {
		return err
	}
	defer flush()

	repo, err := load.Open(cmd.Context(), job)
	if err != nil {
		return err
	}
	defer repo.Close()

	eng := analysis.NewEngine(repo, job.Target.Table)
	start := time.Now()
	err = renderAnalysis(cmd, eng)
	metrics.RecordStep(job.Name, "analyze", err, time.Since(start))
	return err
}

func renderAnalysis(cmd *cobra.Command, eng *analysis.Engine) error {
	ctx := cmd.Context()
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)

	switch {
	case len(analyzeFlags.ranges) > 0:
		if !sort.Float64sAreSorted(analyzeFlags.ranges) {
			return fmt.Errorf("--ranges bounds must be ascending")
		}
		buckets := rangeBuckets(analyzeFlags.ranges)
		catchAll := formatBound(analyzeFlags.ranges[len(analyzeFlags.ranges)-1]) + "+"
		out, err := eng.RangeBuckets(ctx, analyzeFlags.metric, buckets, catchAll)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "range\tcount")
		for _, b := range out {
			fmt.Fprintf(tw, "%s\t%d\n", b.Label, b.Count)
		}

	case len(analyzeFlags.groups) == 1:
		group := analyzeFlags.groups[0]
		out, err := eng.GroupStats(ctx, group, analyzeFlags.metric)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\tcount\tavg\tmin\tmax\tsum\n", group)
		for _, g := range out {
			fmt.Fprintf(tw, "%v\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
				g.Keys[group], g.Count, g.Avg, g.Min, g.Max, g.Sum)
		}

	default:
		out, err := eng.Distribution(ctx, analyzeFlags.groups, analyzeFlags.metric)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\tcount\tavg\n", strings.Join(analyzeFlags.groups, "\t"))
		for _, g := range out {
			for _, col := range analyzeFlags.groups {
				fmt.Fprintf(tw, "%v\t", g.Keys[col])
			}
			fmt.Fprintf(tw, "%d\t%.2f\n", g.Count, g.Avg)
		}
	}
	return tw.Flush()
}

// rangeBuckets labels each bound the way the reports name salary bands:
// "< 50000", "50000 - 99999", and the caller adds the open-ended catch-all.
func rangeBuckets(bounds []float64) []analysis.Bucket {
	out := make([]analysis.Bucket, len(bounds))
	for i, b := range bounds {
		label := "< " + formatBound(b)
		if i > 0 {
			label = formatBound(bounds[i-1]) + " - " + formatBound(b-1)
		}
		out[i] = analysis.Bucket{Label: label, Below: b}
	}
	return out
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
