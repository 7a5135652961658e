// This file wires the MySQL backend into the storage factory.
package mysql

import (
	"context"

	"tabload/internal/schema"
	"tabload/internal/storage"
	myddl "tabload/internal/storage/mysql/ddl"
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
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("mysql", func(ctx context.Context, repo storage.Repository, t schema.Table) error {
		return myddl.EnsureTable(ctx, repo, t)
	})
}
