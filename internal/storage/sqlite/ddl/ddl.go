// Package ddl adapts the generic table-definition model to SQLite: it maps
// logical schema types onto SQLite column affinities and renders CREATE
// TABLE statements with double-quoted identifiers.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "tabload/internal/ddl"
	"tabload/internal/schema"
	"tabload/internal/storage"
)

// MapType maps a logical type into a SQLite column type. SQLite is
// dynamically typed, so this prefers canonical affinities; dates are stored
// as ISO-8601 TEXT and booleans as INTEGER 0/1.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "bool", "boolean":
		return "INTEGER" // 0/1
	case "float", "double", "real":
		return "REAL"
	case "numeric", "decimal":
		return "NUMERIC"
	case "date", "datetime", "timestamp":
		return "TEXT" // ISO-8601
	case "blob", "bytes":
		return "BLOB"
	default:
		return "TEXT"
	}
}

// FromSchema converts a logical schema into a SQLite TableDef. Required
// fields become NOT NULL columns.
func FromSchema(t schema.Table) (gddl.TableDef, error) {
	if strings.TrimSpace(t.Name) == "" {
		return gddl.TableDef{}, fmt.Errorf("sqlite ddl: missing table name")
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
		return fmt.Errorf("sqlite ddl: %w", err)
	}
	return repo.Exec(ctx, stmt)
}
