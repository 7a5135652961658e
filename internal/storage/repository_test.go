package storage_test

import (
	"context"
	"strings"
	"testing"

	"tabload/internal/schema"
	"tabload/internal/storage"
)

type fakeRepo struct{ storage.Repository }

func TestNewUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := storage.New(context.Background(), storage.Config{Driver: "no-such-driver"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "no-such-driver") {
		t.Fatalf("err=%v", err)
	}
}

func TestRegisterAndNew(t *testing.T) {
	// Not parallel: mutates the global registry.
	storage.Register("fake-test-driver", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return &fakeRepo{}, nil
	})

	repo, err := storage.New(context.Background(), storage.Config{Driver: "fake-test-driver"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := repo.(*fakeRepo); !ok {
		t.Fatalf("repo=%T", repo)
	}
}

func TestEnsureTableUnknownDriver(t *testing.T) {
	t.Parallel()

	tbl := schema.Table{Name: "t", Fields: []schema.Field{{Name: "id", Type: "int"}}}
	err := storage.EnsureTable(context.Background(), "no-such-driver", nil, tbl)
	if err == nil {
		t.Fatal("expected error for unregistered DDL bootstrapper")
	}
}
