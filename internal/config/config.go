// Package config defines the YAML job configuration for tabload and helpers
// to load, resolve, and validate it.
//
// A job file describes one load: where the delimited source file lives, how to
// parse it, and which database table receives the rows. The same file also
// carries the connection target used by the query and analyze commands, so a
// single config drives the whole lifecycle of a dataset.
//
// Example:
//
//	job: employees
//	source:
//	  path: data/employees.csv
//	  delimiter: ","
//	  header: true
//	target:
//	  driver: sqlite
//	  dsn: file:employees.db
//	  table: employees
//	  mode: replace
//	  auto_create_table: true
//	types:
//	  salary: int
//	  age: int
//
// Credentials never live in the job file: the DSN may reference ${DB_USER}
// and ${DB_PASSWORD}, which Resolve expands from the environment (optionally
// seeded from a .env file by the CLI).
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by Load when the job file does not exist.
// Callers can check for it with errors.Is.
var ErrConfigNotFound = errors.New("config file not found")

// Load modes accepted by Target.Mode.
const (
	ModeAppend  = "append"
	ModeReplace = "replace"
)

// Job is the top-level object decoded from a job YAML file.
type Job struct {
	// Name identifies the job for logs and metrics labels.
	Name string `yaml:"job"`

	// Source describes the delimited input file.
	Source Source `yaml:"source"`

	// Target describes the destination database table.
	Target Target `yaml:"target"`

	// Types maps column names to logical types ("int", "float", "bool",
	// "date", "text") used for value coercion and DDL inference. Columns not
	// listed stay text.
	Types map[string]string `yaml:"types"`

	// Required lists columns that must be non-null; rows missing any of them
	// are dropped during load and counted in the summary.
	Required []string `yaml:"required"`

	// DateLayout is the Go reference layout used to parse "date" columns.
	// Defaults to "2006-01-02" when empty.
	DateLayout string `yaml:"date_layout"`

	// Runtime controls batching and buffering of the load path.
	Runtime Runtime `yaml:"runtime"`
}

// Source holds the delimited-file options.
type Source struct {
	// Path is the local filesystem path of the input file.
	Path string `yaml:"path"`

	// Delimiter is the field separator; the first rune is used. Defaults to ",".
	Delimiter string `yaml:"delimiter"`

	// Header indicates whether the first row names the columns. When false,
	// columns are synthesized as col_0, col_1, ...
	Header bool `yaml:"header"`

	// TrimSpace trims surrounding whitespace from every field value.
	TrimSpace bool `yaml:"trim_space"`

	// HeaderMap renames source headers to canonical column names before
	// normalization, e.g. {"Employee Name": "name"}.
	HeaderMap map[string]string `yaml:"header_map"`
}

// Target holds the destination database options.
type Target struct {
	// Driver selects the storage backend: "sqlite", "postgres", "mysql", or
	// "mssql".
	Driver string `yaml:"driver"`

	// DSN is the connection string passed to the backend. It may reference
	// ${DB_USER} and ${DB_PASSWORD}; see Resolve. When empty, a DSN is
	// composed from Host/Port/Database per driver.
	DSN string `yaml:"dsn"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`

	// Table is the destination table name (optionally schema-qualified).
	Table string `yaml:"table"`

	// Mode is "append" (default) or "replace". Replace discards the table's
	// prior contents before writing.
	Mode string `yaml:"mode"`

	// AutoCreateTable creates the table from the inferred schema when it does
	// not exist yet.
	AutoCreateTable bool `yaml:"auto_create_table"`

	// Columns optionally pins the destination column order. When empty the
	// order comes from the source header.
	Columns []string `yaml:"columns"`
}

// Runtime controls batching and channel buffering in the load path. Zero
// values select defaults.
type Runtime struct {
	// BatchSize is the number of rows per bulk insert. Default 500.
	BatchSize int `yaml:"batch_size"`

	// Buffer is the parser→loader channel capacity. Default 256.
	Buffer int `yaml:"buffer"`
}

// Runtime defaults applied by Normalize.
const (
	DefaultBatchSize = 500
	DefaultBuffer    = 256
)

// Load reads and decodes a job file. Missing files map to ErrConfigNotFound;
// YAML errors are wrapped with the path.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var j Job
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	j.Normalize()
	return &j, nil
}

// Normalize fills defaulted fields in place. It is idempotent and is called
// by Load; tests constructing a Job by hand should call it too.
func (j *Job) Normalize() {
	if j.Source.Delimiter == "" {
		j.Source.Delimiter = ","
	}
	if j.Target.Mode == "" {
		j.Target.Mode = ModeAppend
	}
	if j.DateLayout == "" {
		j.DateLayout = "2006-01-02"
	}
	if j.Runtime.BatchSize <= 0 {
		j.Runtime.BatchSize = DefaultBatchSize
	}
	if j.Runtime.Buffer <= 0 {
		j.Runtime.Buffer = DefaultBuffer
	}
}

// DelimiterRune returns the first rune of the configured delimiter, or ','.
func (s Source) DelimiterRune() rune {
	for _, r := range s.Delimiter {
		return r
	}
	return ','
}
