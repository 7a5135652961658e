package storage

import (
	"context"
	"fmt"
	"sync"

	"tabload/internal/schema"
)

// DDLBootstrapper maps a logical schema onto a backend's dialect and applies
// the resulting CREATE TABLE via repo.Exec. Backends register theirs at init
// next to the repository factory.
type DDLBootstrapper func(ctx context.Context, repo Repository, t schema.Table) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the DDL bootstrapper for a driver.
func RegisterDDL(driver string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[driver] = fn
}

// EnsureTable creates the destination table for the given logical schema
// using the bootstrapper registered for driver. The caller stays
// backend-agnostic.
func EnsureTable(ctx context.Context, driver string, repo Repository, t schema.Table) error {
	ddlMu.RLock()
	fn, ok := ddlFns[driver]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for driver %q", driver)
	}
	return fn(ctx, repo, t)
}
