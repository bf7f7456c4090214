// Package ingest reads the five ml-100k source files into typed tables.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"ml100k/internal/apperrors"
	"ml100k/internal/catalog"
	"ml100k/internal/dataset"
	"ml100k/internal/datasource/file"
	"ml100k/internal/parser/delimited"

	"go.uber.org/zap"
)

// Count is the number of rows loaded from one source file.
type Count struct {
	File string
	Rows int
}

// Loader reads every catalog source below a root directory.
type Loader struct {
	root   string
	logger *zap.Logger
}

// New returns a Loader for root.
func New(root string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{root: root, logger: logger}
}

// Load reads all five sources in catalog order and stops at the first
// failure. The returned counts cover the files loaded before any failure.
func (l *Loader) Load(ctx context.Context) (*dataset.Raw, []Count, error) {
	if err := file.CheckDir(l.root); err != nil {
		return nil, nil, err
	}

	raw := &rawTables{}
	steps := []struct {
		src  catalog.Source
		read recordFunc
	}{
		{catalog.Genres, raw.appendGenre},
		{catalog.Occupations, raw.appendOccupation},
		{catalog.Users, raw.appendUser},
		{catalog.Items, raw.appendItem},
		{catalog.Ratings, raw.appendRating},
	}

	counts := make([]Count, 0, len(steps))
	for _, s := range steps {
		n, err := l.readSource(ctx, s.src, s.read)
		if err != nil {
			return nil, counts, err
		}
		counts = append(counts, Count{File: s.src.File, Rows: n})
		l.logger.Info("source loaded", zap.String("file", s.src.File), zap.Int("rows", n))
	}
	return &raw.Raw, counts, nil
}

// rawTables carries the per-source decoders.
type rawTables struct {
	dataset.Raw
}

// recordFunc decodes one record into the receiving table.
type recordFunc func(f fields) error

func (l *Loader) readSource(ctx context.Context, src catalog.Source, fn recordFunc) (int, error) {
	charset, err := src.Encoding.Charset()
	if err != nil {
		return 0, err
	}
	rc, err := file.NewLocal(filepath.Join(l.root, src.File), charset).Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", src.File, err)
	}
	defer rc.Close()

	return delimited.Read(ctx, rc, delimited.Options{
		Name:   src.File,
		Comma:  src.Delimiter,
		Fields: src.Width(),
	}, func(line int, rec []string) error {
		f, err := parseFields(src, line, rec)
		if err != nil {
			return err
		}
		return fn(f)
	})
}

// fields is one record with its integer columns already parsed according
// to the catalog column types.
type fields struct {
	rec  []string
	ints []int64
}

// parseFields converts every TypeInteger column of rec. The first column
// that does not parse fails the row.
func parseFields(src catalog.Source, line int, rec []string) (fields, error) {
	f := fields{rec: rec, ints: make([]int64, len(rec))}
	for i, c := range src.Columns {
		if c.Type != catalog.TypeInteger {
			continue
		}
		v, err := strconv.ParseInt(strings.TrimSpace(rec[i]), 10, 64)
		if err != nil {
			return fields{}, &apperrors.RowError{
				File:   src.File,
				Line:   line,
				Reason: fmt.Sprintf("column %s: invalid integer %q", c.Name, rec[i]),
			}
		}
		f.ints[i] = v
	}
	return f, nil
}

func (f fields) text(i int) string { return f.rec[i] }
func (f fields) integer(i int) int { return int(f.ints[i]) }
func (f fields) integer64(i int) int64 { return f.ints[i] }
