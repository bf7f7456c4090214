// Package delimited reads headerless, fixed-width delimited files.
//
// Every record must have exactly the configured number of fields. The first
// mismatch stops the read with an *apperrors.RowError carrying the physical
// line number; there is no soft-drop mode.
package delimited

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"ml100k/internal/apperrors"
)

const utf8BOM = "\uFEFF"

// Options configures a Reader.
type Options struct {
	// Name identifies the source in errors, usually the file name.
	Name string
	// Comma is the field delimiter.
	Comma rune
	// Fields is the exact number of fields per record.
	Fields int
}

// RecordFunc receives each record with its 1-based line number. The slice
// is reused between calls; the strings are not.
type RecordFunc func(line int, rec []string) error

// Read streams every record of r to fn. It returns the number of records read.
//
// Quoting follows encoding/csv in lazy mode, so a stray '"' inside a field
// is kept literally. Blank lines are skipped.
func Read(ctx context.Context, r io.Reader, opt Options, fn RecordFunc) (int, error) {
	if opt.Fields <= 0 {
		return 0, fmt.Errorf("delimited: %s: Fields must be positive", opt.Name)
	}

	cr := csv.NewReader(r)
	cr.Comma = opt.Comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	n := 0
	for {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return n, &apperrors.RowError{File: opt.Name, Line: pe.Line, Reason: pe.Err.Error()}
			}
			return n, fmt.Errorf("delimited: %s: %w", opt.Name, err)
		}

		line, _ := cr.FieldPos(0)
		if n == 0 {
			rec[0] = strings.TrimPrefix(rec[0], utf8BOM)
		}
		if len(rec) != opt.Fields {
			return n, &apperrors.RowError{
				File:   opt.Name,
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", opt.Fields, len(rec)),
			}
		}

		if err := fn(line, rec); err != nil {
			return n, err
		}
		n++
	}
}
