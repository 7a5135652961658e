package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabload/internal/gendata"
)

var gendataCmd = &cobra.Command{
	Use:   "gendata",
	Short: "Write a synthetic employee CSV for testing loads",
	Long: `Gendata writes a CSV of synthetic employee rows (id, name, age, city,
department, level, salary, occupation). The same seed always produces the
same file.

Example:
  tabload gendata --out data/employees_large.csv --records 100000`,
	Args: cobra.NoArgs,
	RunE: runGendata,
}

var gendataFlags struct {
	out     string
	records int
	seed    int64
}

func init() {
	rootCmd.AddCommand(gendataCmd)
	gendataCmd.Flags().StringVar(&gendataFlags.out, "out", "",
		"Output file path (required)")
	gendataCmd.Flags().IntVar(&gendataFlags.records, "records", 100000,
		"Number of rows to generate")
	gendataCmd.Flags().Int64Var(&gendataFlags.seed, "seed", 42,
		"Random seed")
}

func runGendata(cmd *cobra.Command, args []string) error {
	if gendataFlags.out == "" {
		return fmt.Errorf("--out is required")
	}
	err := gendata.WriteFile(gendataFlags.out, gendata.Options{
		Records: gendataFlags.records,
		Seed:    gendataFlags.seed,
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d records to %s\n", gendataFlags.records, gendataFlags.out)
	return nil
}
