// Package ddl adapts the generic table-definition model to Postgres.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "tabload/internal/ddl"
	"tabload/internal/schema"
	"tabload/internal/storage"
)

// MapType maps a logical type into a Postgres column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "bool", "boolean":
		return "BOOLEAN"
	case "float", "double", "real":
		return "DOUBLE PRECISION"
	case "numeric", "decimal":
		return "NUMERIC"
	case "date":
		return "DATE"
	case "datetime", "timestamp", "timestamptz":
		return "TIMESTAMPTZ"
	case "blob", "bytes":
		return "BYTEA"
	default:
		return "TEXT"
	}
}

// FromSchema converts a logical schema into a Postgres TableDef.
func FromSchema(t schema.Table) (gddl.TableDef, error) {
	if strings.TrimSpace(t.Name) == "" {
		return gddl.TableDef{}, fmt.Errorf("postgres ddl: missing table name")
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
	stmt, err := gddl.BuildCreateTableSQL(def, gddl.Ident)
	if err != nil {
		return fmt.Errorf("postgres ddl: %w", err)
	}
	return repo.Exec(ctx, stmt)
}
