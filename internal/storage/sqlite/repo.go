// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the CGO-free modernc driver. Bulk inserts run as a
// prepared statement inside a single transaction; SQLite has no COPY-style
// API, but transactions keep throughput acceptable for this tool's volumes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tabload/internal/ddl"
	"tabload/internal/storage"
	"tabload/pkg/records"
)

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite path or URI, e.g. "employees.db" or
	// "file:employees.db?cache=shared".
	DSN string

	// Table is the destination table name.
	Table string

	// Columns is the ordered destination column list.
	Columns []string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite database and returns a Repository plus a Close
// function for cleanup. The connection is pinged with a short timeout to fail
// fast on bad DSNs.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// In-memory databases exist per connection; a single connection keeps
	// every statement on the same database and serializes writers.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	return &Repository{db: db, cfg: cfg}, func() { db.Close() }, nil
}

// CopyFrom inserts rows into the configured table using one transaction and
// a prepared INSERT. len(row) must equal len(columns) for every row.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = ddl.Ident(c)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		ddl.QuoteFQN(r.cfg.Table, nil),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Exec runs a statement (typically DDL) on the underlying connection.
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Query runs a SELECT and materializes each row as a Record keyed by the
// result column names.
func (r *Repository) Query(ctx context.Context, query string, args ...any) ([]records.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()
	return storage.ScanRows(rows)
}

// Truncate removes all rows from the configured table. SQLite has no
// TRUNCATE; an unqualified DELETE takes the same fast path.
func (r *Repository) Truncate(ctx context.Context) error {
	return r.Exec(ctx, "DELETE FROM "+ddl.QuoteFQN(r.cfg.Table, nil))
}

// Dialect returns the SQLite rendering rules.
func (r *Repository) Dialect() storage.Dialect { return dialect{} }

// dialect implements storage.Dialect for SQLite.
type dialect struct{}

func (dialect) Placeholder(int) string      { return "?" }
func (dialect) QuoteIdent(id string) string { return ddl.Ident(id) }
