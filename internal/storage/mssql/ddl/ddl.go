// Package ddl adapts the generic table-definition model to SQL Server.
// T-SQL has no CREATE TABLE IF NOT EXISTS, so the renderer here guards the
// statement with OBJECT_ID instead of delegating to the shared builder.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "tabload/internal/ddl"
	"tabload/internal/schema"
	"tabload/internal/storage"
)

// MapType maps a logical type into a SQL Server column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "bool", "boolean":
		return "BIT"
	case "float", "double", "real":
		return "FLOAT"
	case "numeric", "decimal":
		return "DECIMAL(18,6)"
	case "date":
		return "DATE"
	case "datetime", "timestamp":
		return "DATETIME2"
	case "blob", "bytes":
		return "VARBINARY(MAX)"
	default:
		return "NVARCHAR(1024)"
	}
}

// Quote escapes an identifier with brackets.
func Quote(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, Quote(p))
		}
	}
	return strings.Join(out, ".")
}

// FromSchema converts a logical schema into a SQL Server TableDef.
func FromSchema(t schema.Table) (gddl.TableDef, error) {
	if strings.TrimSpace(t.Name) == "" {
		return gddl.TableDef{}, fmt.Errorf("mssql ddl: missing table name")
	}
	cols := make([]gddl.ColumnDef, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = gddl.ColumnDef{
			Name:     f.Name,
			SQLType:  MapType(f.Type),
			Nullable: !f.Required,
		}
	}
	return gddl.TableDef{FQN: t.Name, Columns: cols}, nil
}

// BuildCreateTableSQL renders an OBJECT_ID-guarded CREATE TABLE statement.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("mssql ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("mssql ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("mssql ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("mssql ddl: column %s missing SQLType", name)
		}
		col := Quote(name) + " " + typ
		if !c.Nullable {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}

	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nCREATE TABLE %s (\n  %s\n);",
		strings.ReplaceAll(fqn, "'", "''"),
		quoteFQN(fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

// EnsureTable renders the guarded CREATE TABLE for the schema and applies it
// via the repository.
func EnsureTable(ctx context.Context, repo storage.Repository, t schema.Table) error {
	def, err := FromSchema(t)
	if err != nil {
		return err
	}
	stmt, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, stmt)
}
