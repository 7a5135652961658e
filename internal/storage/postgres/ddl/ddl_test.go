package ddl

import (
	"testing"

	"tabload/internal/schema"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"int", "BIGINT"},
		{"bool", "BOOLEAN"},
		{"float", "DOUBLE PRECISION"},
		{"numeric", "NUMERIC"},
		{"date", "DATE"},
		{"datetime", "TIMESTAMPTZ"},
		{"blob", "BYTEA"},
		{"text", "TEXT"},
		{"", "TEXT"},
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
		Name: "hr.employees",
		Fields: []schema.Field{
			{Name: "id", Type: "int", Required: true},
			{Name: "joined", Type: "date"},
		},
	})
	if err != nil {
		t.Fatalf("from schema: %v", err)
	}
	if def.FQN != "hr.employees" {
		t.Fatalf("fqn=%q", def.FQN)
	}
	if def.Columns[1].SQLType != "DATE" || !def.Columns[1].Nullable {
		t.Fatalf("col=%+v", def.Columns[1])
	}
}
