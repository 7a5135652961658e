package ddl

import (
	"fmt"
	"strings"
)

// QuoteFunc escapes a single identifier segment for a dialect.
type QuoteFunc func(string) string

// Ident is the default QuoteFunc: double-quoted identifiers with embedded
// quotes doubled, the form accepted by SQLite and Postgres.
func Ident(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// BuildCreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement from a
// TableDef using the given identifier quoter (Ident when quote is nil).
//
// Each column renders as
//
//	<name> <type> [NOT NULL] [DEFAULT <expr>]
//
// and primary-key columns are collected into a trailing
// PRIMARY KEY (<cols>) table constraint. Dotted FQNs are quoted segment by
// segment.
func BuildCreateTableSQL(t TableDef, quote QuoteFunc) (string, error) {
	if quote == nil {
		quote = Ident
	}
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(quote(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quote(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		QuoteFQN(fqn, quote),
		strings.Join(cols, ",\n  "),
	), nil
}

// QuoteFQN quotes each non-empty dotted segment of a table name.
func QuoteFQN(fqn string, quote QuoteFunc) string {
	if quote == nil {
		quote = Ident
	}
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}
