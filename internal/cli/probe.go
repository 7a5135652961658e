package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tabload/internal/datasource"
	"tabload/internal/sniff"
)

var probeCmd = &cobra.Command{
	Use:   "probe <path-or-url>",
	Short: "Inspect a delimited file and draft a job config for it",
	Long: `Probe samples the input, detects the delimiter, infers a column schema,
and prints a suggested YAML job file to stdout. Redirect it to a file and
adjust the target before loading.

Examples:
  tabload probe data/employees.csv > employees.yaml
  tabload probe https://example.com/export.csv --table employees`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

var probeFlags struct {
	table string
	bytes int
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().StringVar(&probeFlags.table, "table", "",
		"Target table name (default: derived from the file name)")
	probeCmd.Flags().IntVar(&probeFlags.bytes, "bytes", sniff.DefaultMaxBytes,
		"How many bytes of the input to sample")
}

func runProbe(cmd *cobra.Command, args []string) error {
	path := args[0]

	src := datasource.ForPath(path)
	rc, err := src.Open(cmd.Context())
	if err != nil {
		return err
	}
	defer rc.Close()

	rep, err := sniff.Sniff(rc, probeFlags.bytes)
	if err != nil {
		return err
	}

	name := tableNameFor(path)
	table := probeFlags.table
	if table == "" {
		table = name
	}

	fmt.Fprintf(os.Stderr, "detected delimiter %q, %d columns, %d rows sampled\n",
		rep.Delimiter, len(rep.Columns), rep.RowsSampled)

	job := rep.SuggestJob(name, path, table)
	out, err := yaml.Marshal(job)
	if err != nil {
		return fmt.Errorf("render job file: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}

// tableNameFor derives an identifier-ish name from a path or URL.
func tableNameFor(path string) string {
	base := filepath.Base(path)
	if i := strings.LastIndexByte(base, '?'); i > 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(strings.ReplaceAll(base, "-", "_"))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || base == "." {
		return "data"
	}
	return base
}
