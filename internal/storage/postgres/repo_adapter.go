// This file wires the Postgres backend into the storage factory.
package postgres

import (
	"context"

	"tabload/internal/schema"
	"tabload/internal/storage"
	pgddl "tabload/internal/storage/postgres/ddl"
)

// newRepository is a test hook pointing at NewRepository by default.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres", func(ctx context.Context, repo storage.Repository, t schema.Table) error {
		return pgddl.EnsureTable(ctx, repo, t)
	})
}
