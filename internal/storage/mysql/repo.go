// Package mysql implements a MySQL-backed storage.Repository using
// database/sql. Bulk inserts use multi-row INSERT statements inside a
// transaction, MySQL's practical fast path without LOAD DATA INFILE.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"tabload/internal/storage"
	"tabload/pkg/records"
)

// Config holds MySQL repository configuration derived from storage.Config.
type Config struct {
	// DSN is a go-sql-driver DSN, e.g. "user:pass@tcp(host:3306)/db".
	DSN string

	// Table is the destination table name.
	Table string

	// Columns is the ordered destination column list.
	Columns []string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a connection pool and returns a Repository plus a
// Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { db.Close() }, nil
}

// CopyFrom inserts rows using one multi-row INSERT per call, inside a
// transaction so a failed batch leaves nothing behind.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteFQN(r.cfg.Table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mysql: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(rowPlaceholder)
		args = append(args, row...)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}
	res, err := tx.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("mysql: insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Exec runs a statement without results.
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

// Query runs a SELECT and materializes each row as a Record.
func (r *Repository) Query(ctx context.Context, query string, args ...any) ([]records.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mysql: query: %w", err)
	}
	defer rows.Close()
	return storage.ScanRows(rows)
}

// Truncate discards all rows of the configured table.
func (r *Repository) Truncate(ctx context.Context) error {
	return r.Exec(ctx, "TRUNCATE TABLE "+quoteFQN(r.cfg.Table))
}

// Dialect returns the MySQL rendering rules.
func (r *Repository) Dialect() storage.Dialect { return dialect{} }

// dialect implements storage.Dialect for MySQL.
type dialect struct{}

func (dialect) Placeholder(int) string      { return "?" }
func (dialect) QuoteIdent(id string) string { return quoteIdent(id) }

// quoteIdent escapes an identifier with backticks, MySQL's native quoting.
func quoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, quoteIdent(p))
		}
	}
	return strings.Join(out, ".")
}
