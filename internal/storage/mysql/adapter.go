package mysql

import (
	"context"

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

func dsnFor(cfg storage.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return BuildDSN(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.ConnectTimeout)
}

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: dsnFor(cfg)})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterBootstrap("mysql", func(ctx context.Context, cfg storage.Config) (bool, error) {
		return EnsureDatabase(ctx, dsnFor(cfg))
	})
}
