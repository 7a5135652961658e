// Package ddl adapts the generic table-definition model to MySQL: backtick
// identifier quoting and MySQL column types.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "tabload/internal/ddl"
	"tabload/internal/schema"
	"tabload/internal/storage"
)

// MapType maps a logical type into a MySQL column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "bool", "boolean":
		return "TINYINT(1)"
	case "float", "double", "real":
		return "DOUBLE"
	case "numeric", "decimal":
		return "DECIMAL(18,6)"
	case "date":
		return "DATE"
	case "datetime", "timestamp":
		return "DATETIME"
	case "blob", "bytes":
		return "BLOB"
	default:
		// TEXT columns cannot be indexed without a prefix; VARCHAR keeps the
		// loaded tables queryable.
		return "VARCHAR(1024)"
	}
}

// Quote escapes an identifier with backticks.
func Quote(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// FromSchema converts a logical schema into a MySQL TableDef.
func FromSchema(t schema.Table) (gddl.TableDef, error) {
	if strings.TrimSpace(t.Name) == "" {
		return gddl.TableDef{}, fmt.Errorf("mysql ddl: missing table name")
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

// EnsureTable renders CREATE TABLE IF NOT EXISTS for the schema and applies
// it via the repository.
func EnsureTable(ctx context.Context, repo storage.Repository, t schema.Table) error {
	def, err := FromSchema(t)
	if err != nil {
		return err
	}
	stmt, err := gddl.BuildCreateTableSQL(def, Quote)
	if err != nil {
		return fmt.Errorf("mysql ddl: %w", err)
	}
	return repo.Exec(ctx, stmt)
}
