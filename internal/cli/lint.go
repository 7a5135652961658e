package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tabload/internal/config"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check a job file without touching the source or database",
	Long: `Lint reads the job file, applies defaults, and reports every problem it
finds. Errors exit non-zero; warnings are informational.

Example:
  tabload lint -c employees.yaml`,
	Args: cobra.NoArgs,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	if rootFlags.configPath == "" {
		return fmt.Errorf("--config is required")
	}
	job, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	job.Normalize()

	issues := config.Validate(*job)
	var errs int
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "%s\n", issue.Error())
		if issue.Severity == config.SeverityError {
			errs++
		}
	}
	if errs > 0 {
		return fmt.Errorf("%d error(s) in %s", errs, rootFlags.configPath)
	}
	fmt.Printf("%s: ok (%d warning(s))\n", rootFlags.configPath, len(issues))
	return nil
}
