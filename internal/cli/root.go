// Package cli wires the tabload commands: load, query, analyze, lint, and
// gendata. Each command reads the shared job config, opens the target
// storage backend through the driver registry, and prints results to stdout.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tabload/internal/config"
	"tabload/internal/metrics"
	"tabload/internal/metrics/datadog"
	"tabload/internal/metrics/prompush"
)

var rootCmd = &cobra.Command{
	Use:   "tabload",
	Short: "Load delimited files into a database and report on them",
	Long: `tabload loads delimited text files into a relational database and runs
filtered queries and grouped aggregate reports against the loaded table.

A YAML job file describes the source file, the target database, and the
column types. Database credentials come from the environment (DB_USER and
DB_PASSWORD), optionally via a .env file in the working directory.

Supported drivers: sqlite, postgres, mysql, mssql.`,
	SilenceUsage: true,
}

var rootFlags struct {
	configPath string
	metrics    string
	verbose    bool
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.configPath, "config", "c", "",
		"Path to the YAML job file")
	rootCmd.PersistentFlags().StringVar(&rootFlags.metrics, "metrics", "",
		"Metrics backend, e.g. pushgateway=http://host:9091 or datadog=127.0.0.1:8125")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false,
		"Log configuration warnings and progress detail")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadJob reads, normalizes, and validates the job file named by --config.
// Validation errors fail the command; warnings are logged under --verbose.
func loadJob() (*config.Job, error) {
	if rootFlags.configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	_ = godotenv.Load()

	job, err := config.Load(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	job.Normalize()

	var failed bool
	for _, issue := range config.Validate(*job) {
		switch issue.Severity {
		case config.SeverityError:
			fmt.Fprintf(os.Stderr, "config: %s\n", issue.Error())
			failed = true
		case config.SeverityWarning:
			if rootFlags.verbose {
				log.Printf("config: %s", issue.Error())
			}
		}
	}
	if failed {
		return nil, fmt.Errorf("invalid config %s", rootFlags.configPath)
	}
	return job, nil
}

// setupMetrics installs the backend named by --metrics and returns a flush
// function for the command to defer.
func setupMetrics() (func(), error) {
	flush := func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush: %v", err)
		}
	}
	spec := rootFlags.metrics
	if spec == "" {
		return func() {}, nil
	}

	name, arg, ok := cutMetricsSpec(spec)
	if !ok {
		return nil, fmt.Errorf("--metrics %q: expected backend=address", spec)
	}
	switch name {
	case "pushgateway":
		b, err := prompush.NewBackend("tabload", arg)
		if err != nil {
			return nil, err
		}
		metrics.SetBackend(b)
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: arg, Namespace: "tabload."})
		if err != nil {
			return nil, err
		}
		metrics.SetBackend(b)
	default:
		return nil, fmt.Errorf("--metrics %q: unknown backend %q (want pushgateway or datadog)", spec, name)
	}
	return flush, nil
}

func cutMetricsSpec(spec string) (name, arg string, ok bool) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == '=' {
			return spec[:i], spec[i+1:], spec[:i] != "" && spec[i+1:] != ""
		}
	}
	return "", "", false
}
