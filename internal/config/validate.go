// Static validation for Job values: a lightweight lint pass that checks a
// decoded Job and returns a list of issues (errors and warnings) callers can
// surface before touching the filesystem or the database.

package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding worth surfacing that does not block
	// execution on its own.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into the
// config (e.g. "target.mode"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownTypes are the logical types accepted in the "types" map.
var knownTypes = map[string]struct{}{
	"int": {}, "integer": {}, "bigint": {},
	"float": {}, "double": {}, "real": {},
	"bool": {}, "boolean": {},
	"date": {}, "datetime": {}, "timestamp": {},
	"text": {}, "string": {},
}

// knownDrivers are the storage drivers a Job may name. The storage factory is
// the runtime source of truth; this set only powers early lint feedback.
var knownDrivers = map[string]struct{}{
	"sqlite": {}, "postgres": {}, "mysql": {}, "mssql": {},
}

// Validate performs static validation of a Job. It does not mutate the job
// and returns a slice of Issue values; callers decide whether warnings are
// fatal.
func Validate(j Job) []Issue {
	var issues []Issue

	if strings.TrimSpace(j.Name) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job name must not be empty; it labels logs and metrics",
		})
	}

	issues = append(issues, validateSource(j.Source)...)
	issues = append(issues, validateTarget(j.Target)...)
	issues = append(issues, validateTypes(j)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "source file path must not be empty",
		})
	}
	if n := len([]rune(s.Delimiter)); n > 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.delimiter",
			Message:  fmt.Sprintf("delimiter %q has %d runes; only the first is used", s.Delimiter, n),
		})
	}
	return issues
}

func validateTarget(t Target) []Issue {
	var issues []Issue

	if _, ok := knownDrivers[t.Driver]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "target.driver",
			Message:  fmt.Sprintf("unknown driver %q (expected sqlite, postgres, mysql, or mssql)", t.Driver),
		})
	}
	if strings.TrimSpace(t.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "target.table",
			Message:  "target table must not be empty",
		})
	}
	if t.Mode != ModeAppend && t.Mode != ModeReplace {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "target.mode",
			Message:  fmt.Sprintf("mode %q is not one of %q, %q", t.Mode, ModeAppend, ModeReplace),
		})
	}
	if strings.TrimSpace(t.DSN) == "" && strings.TrimSpace(t.Database) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "target.dsn",
			Message:  "either dsn or host/port/database must be set",
		})
	}
	return issues
}

func validateTypes(j Job) []Issue {
	var issues []Issue

	for col, typ := range j.Types {
		if _, ok := knownTypes[strings.ToLower(strings.TrimSpace(typ))]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "types." + col,
				Message:  fmt.Sprintf("unknown logical type %q; column will be treated as text", typ),
			})
		}
	}

	if len(j.Target.Columns) > 0 {
		declared := make(map[string]struct{}, len(j.Target.Columns))
		for _, c := range j.Target.Columns {
			declared[c] = struct{}{}
		}
		for col := range j.Types {
			if _, ok := declared[col]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     "types." + col,
					Message:  "typed column is not in target.columns",
				})
			}
		}
		for _, col := range j.Required {
			if _, ok := declared[col]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     "required",
					Message:  fmt.Sprintf("required column %q is not in target.columns", col),
				})
			}
		}
	}
	return issues
}
