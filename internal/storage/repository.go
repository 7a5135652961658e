// Package storage contains the storage-agnostic contracts used by the load,
// query, and analysis layers, plus a registry that maps driver names to
// concrete backends.
//
// Backends (sqlite, postgres, mysql, mssql) live in subpackages and register
// themselves at init time; importing internal/storage/all (typically as a
// blank import in the binary) makes every built-in backend available. The
// rest of the application depends only on the Repository interface and never
// on a driver package.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tabload/pkg/records"
)

// Config carries everything a backend needs to open a connection bound to one
// destination table.
type Config struct {
	// Driver selects the registered backend ("sqlite", "postgres", ...).
	Driver string

	// DSN is the driver-native connection string.
	DSN string

	// Table is the destination table name, optionally schema-qualified.
	Table string

	// Columns is the ordered destination column list used for bulk inserts.
	Columns []string
}

// Repository is the backend contract. Implementations are safe for use from
// a single goroutine at a time; the load pipeline serializes writes.
type Repository interface {
	// CopyFrom bulk-inserts rows (aligned to the columns order) into the
	// configured table using the backend's most efficient primitive, and
	// returns the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a statement (typically DDL or TRUNCATE) without results.
	Exec(ctx context.Context, sql string, args ...any) error

	// Query runs a SELECT and materializes every row as a Record keyed by the
	// result's column names.
	Query(ctx context.Context, sql string, args ...any) ([]records.Record, error)

	// Truncate discards all rows of the configured table. Used by replace
	// mode before loading.
	Truncate(ctx context.Context) error

	// Dialect exposes the SQL-rendering rules of the backend.
	Dialect() Dialect

	// Close releases the underlying pool or connection.
	Close()
}

// Dialect captures the per-backend SQL rendering differences the query and
// analysis builders need.
type Dialect interface {
	// Placeholder renders the i-th (1-based) bind parameter, e.g. "?", "$1",
	// "@p1".
	Placeholder(i int) string

	// QuoteIdent escapes a single identifier segment.
	QuoteIdent(id string) string
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a driver name. Backends
// call it from init.
func Register(driver string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[driver] = f
}

// New opens a Repository for cfg.Driver. Unknown drivers return an error
// naming the registered alternatives.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Driver]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown storage driver %q (registered: %s)", cfg.Driver, registered())
	}
	return f(ctx, cfg)
}

func registered() string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(factories))
	for k := range factories {
		names = append(names, k)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
