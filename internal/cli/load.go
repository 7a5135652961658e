package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tabload/internal/load"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the job's source file into its target table",
	Long: `Load streams the configured source file into the target table.

Rows are parsed, coerced to the configured column types, filtered for
required fields, and bulk-inserted in batches. With mode: replace the table
is emptied first; with mode: append (the default) rows are added to what is
already there.

Examples:
  tabload load -c employees.yaml
  tabload load -c employees.yaml --metrics pushgateway=http://pushgw:9091`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	job, err := loadJob()
	if err != nil {
		return err
	}
	flush, err := setupMetrics()
	if err != nil {
		return err
	}
	defer flush()

	sum, err := load.Run(cmd.Context(), job)
	if err != nil {
		return err
	}

	fmt.Printf("loaded %d rows into %s (%d parse-skipped, %d dropped) in %s\n",
		sum.Rows, job.Target.Table, sum.Skipped, sum.Dropped,
		sum.Elapsed.Truncate(time.Millisecond))
	return nil
}
