package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDatabase creates the database file (and its directory) when it does
// not exist yet. In-memory databases are never created.
func EnsureDatabase(ctx context.Context, dsn string) (bool, error) {
	path := filePath(dsn)
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("sqlite: stat %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	// Opening a connection creates the file.
	_, closeFn, err := NewRepository(ctx, Config{DSN: dsn})
	if err != nil {
		return false, err
	}
	closeFn()
	return true, nil
}

// filePath extracts the database file from a DSN, or "" for in-memory
// databases.
func filePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		if strings.Contains(p[i:], "mode=memory") {
			return ""
		}
		p = p[:i]
	}
	if p == "" || p == ":memory:" {
		return ""
	}
	return p
}
