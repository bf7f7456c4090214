// Package storage defines the storage-agnostic Store contract, the backend
// registry, and the Writer that persists the three MovieLens tables.
//
// Backends live in subpackages (postgres, mssql, mysql, sqlite) and register
// themselves in init. Import internal/storage/all to enable all of them.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ml100k/internal/apperrors"
	"ml100k/internal/ddl"
)

// Store replaces whole tables in a relational database.
type Store interface {
	// ReplaceTable drops def if it exists, recreates it, and inserts rows.
	// Rows are aligned to def.Columns. It returns the number of rows written.
	ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error)
	Close() error
}

// Config is the backend-neutral connection description. When DSN is set it
// wins over the discrete fields.
type Config struct {
	Kind     string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Database string

	ConnectTimeout time.Duration
}

// Factory opens a Store for cfg.
type Factory func(ctx context.Context, cfg Config) (Store, error)

// Bootstrapper creates cfg.Database when it is absent and reports whether it
// did so.
type Bootstrapper func(ctx context.Context, cfg Config) (created bool, err error)

var (
	mu         sync.RWMutex
	factories  = map[string]Factory{}
	bootstraps = map[string]Bootstrapper{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// RegisterBootstrap registers (or replaces) the database bootstrapper for
// kind.
func RegisterBootstrap(kind string, b Bootstrapper) {
	mu.Lock()
	defer mu.Unlock()
	bootstraps[kind] = b
}

// ListKinds returns the registered kinds in sorted order.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Store of cfg.Kind. Failures to connect are wrapped with
// apperrors.ErrStoreConnectivity.
func New(ctx context.Context, cfg Config) (Store, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s (registered: %v)", cfg.Kind, ListKinds())
	}
	s, err := f(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", apperrors.ErrStoreConnectivity, cfg.Kind, err)
	}
	return s, nil
}

// EnsureDatabase runs the bootstrapper for cfg.Kind. Kinds without one are
// treated as already bootstrapped.
func EnsureDatabase(ctx context.Context, cfg Config) (bool, error) {
	mu.RLock()
	b, ok := bootstraps[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return false, nil
	}
	created, err := b(ctx, cfg)
	if err != nil {
		return false, fmt.Errorf("%w: bootstrap %s database: %w", apperrors.ErrStoreConnectivity, cfg.Kind, err)
	}
	return created, nil
}
