package ddl

import (
	"strings"
	"testing"

	"tabload/internal/schema"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"int", "INTEGER"},
		{"INTEGER", "INTEGER"},
		{"bigint", "INTEGER"},
		{"bool", "INTEGER"},
		{"float", "REAL"},
		{"numeric", "NUMERIC"},
		{"date", "TEXT"},
		{"datetime", "TEXT"},
		{"blob", "BLOB"},
		{"text", "TEXT"},
		{"", "TEXT"},
		{"whatever", "TEXT"},
	}
	for _, tc := range tests {
		if got := MapType(tc.in); got != tc.want {
			t.Errorf("MapType(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestFromSchema(t *testing.T) {
	t.Parallel()

	def, err := FromSchema(schema.Table{
		Name: "employees",
		Fields: []schema.Field{
			{Name: "id", Type: "int", Required: true},
			{Name: "name", Type: "text"},
		},
	})
	if err != nil {
		t.Fatalf("from schema: %v", err)
	}
	if def.FQN != "employees" || len(def.Columns) != 2 {
		t.Fatalf("def=%+v", def)
	}
	if def.Columns[0].Nullable {
		t.Error("required field rendered nullable")
	}
	if !def.Columns[1].Nullable {
		t.Error("optional field rendered NOT NULL")
	}
	if def.Columns[0].SQLType != "INTEGER" {
		t.Errorf("type=%q", def.Columns[0].SQLType)
	}

	if _, err := FromSchema(schema.Table{}); err == nil {
		t.Error("empty table name accepted")
	}
}

func TestFromSchemaRendered(t *testing.T) {
	t.Parallel()

	def, err := FromSchema(schema.Table{
		Name:   "t",
		Fields: []schema.Field{{Name: "joined", Type: "date"}},
	})
	if err != nil {
		t.Fatalf("from schema: %v", err)
	}
	if !strings.EqualFold(def.Columns[0].SQLType, "TEXT") {
		t.Fatalf("date maps to %q want TEXT", def.Columns[0].SQLType)
	}
}
