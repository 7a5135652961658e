package ddl

import (
	"strings"
	"testing"

	gddl "tabload/internal/ddl"
	"tabload/internal/schema"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"int", "BIGINT"},
		{"bool", "TINYINT(1)"},
		{"float", "DOUBLE"},
		{"numeric", "DECIMAL(18,6)"},
		{"date", "DATE"},
		{"datetime", "DATETIME"},
		{"blob", "BLOB"},
		{"text", "VARCHAR(1024)"},
	}
	for _, tc := range tests {
		if got := MapType(tc.in); got != tc.want {
			t.Errorf("MapType(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	if got := Quote("name"); got != "`name`" {
		t.Fatalf("got %q", got)
	}
	if got := Quote("we`ird"); got != "`we``ird`" {
		t.Fatalf("got %q", got)
	}
}

func TestEnsureSQLUsesBackticks(t *testing.T) {
	t.Parallel()

	def, err := FromSchema(schema.Table{
		Name:   "employees",
		Fields: []schema.Field{{Name: "id", Type: "int", Required: true}},
	})
	if err != nil {
		t.Fatalf("from schema: %v", err)
	}
	sql, err := gddl.BuildCreateTableSQL(def, Quote)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(sql, "`employees`") || !strings.Contains(sql, "`id` BIGINT NOT NULL") {
		t.Fatalf("sql:\n%s", sql)
	}
}
