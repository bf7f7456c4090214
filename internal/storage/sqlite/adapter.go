package sqlite

import (
	"context"
	"fmt"

	"ml100k/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adapts *Repository to storage.Store, adding Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Store = (*wrappedRepo)(nil)

// Close implements storage.Store.
func (w *wrappedRepo) Close() error {
	if w.closeFn != nil {
		w.closeFn()
	}
	return nil
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		dsn := resolveDSN(cfg.DSN, cfg.Database)
		if dsn == "" {
			return nil, fmt.Errorf("sqlite: DSN or database path is required")
		}
		r, closeFn, err := newRepository(ctx, Config{DSN: dsn})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterBootstrap("sqlite", func(ctx context.Context, cfg storage.Config) (bool, error) {
		return EnsureDatabase(ctx, resolveDSN(cfg.DSN, cfg.Database))
	})
}
