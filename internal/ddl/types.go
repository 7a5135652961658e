// Package ddl defines a small, backend-agnostic model for table definitions
// and a shared CREATE TABLE renderer parameterized by an identifier quoter.
//
// Backend packages (internal/storage/<kind>/ddl) map logical schema types
// into their dialect's column types and supply the quoting rules; this
// package owns the statement shape so all dialects render consistently.
package ddl

// ColumnDef describes a single column in a table definition.
type ColumnDef struct {
	// Name is the logical column name, unquoted; quoting happens at render
	// time.
	Name string

	// SQLType is the dialect column type (e.g. TEXT, BIGINT, TIMESTAMPTZ).
	SQLType string

	// Nullable controls whether NOT NULL is omitted.
	Nullable bool

	// PrimaryKey marks the column as part of the table's primary key.
	PrimaryKey bool

	// Default is a raw default expression emitted verbatim. The caller is
	// responsible for dialect correctness.
	Default string
}

// TableDef holds a table name (optionally dotted, e.g. "schema.table") and an
// ordered column list.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
