// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"ml100k/internal/apperrors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Local is a filesystem data source bound to one path. When a charset is
// set, Open decodes the file to UTF-8 on the fly.
type Local struct {
	path    string
	charset encoding.Encoding
}

// NewLocal returns a Local source for path. A nil charset reads bytes as-is.
func NewLocal(path string, charset encoding.Encoding) *Local {
	return &Local{path: path, charset: charset}
}

// Open opens the configured path for reading.
//
// A canceled context is returned without touching the filesystem. A path
// that does not exist yields an error wrapping apperrors.ErrMissingSource
// and fs.ErrNotExist; other errors are wrapped with the path.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrMissingSource, err)
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	if l.charset == nil {
		return f, nil
	}

	type rc struct {
		io.Reader
		io.Closer
	}
	return &rc{
		Reader: transform.NewReader(f, l.charset.NewDecoder()),
		Closer: f,
	}, nil
}

// CheckDir verifies that dir exists and is a directory.
func CheckDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: data directory %s: %w", apperrors.ErrMissingSource, dir, err)
		}
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", apperrors.ErrMissingSource, dir)
	}
	return nil
}
