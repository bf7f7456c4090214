// Package apperrors defines the failure taxonomy of the pipeline and maps it
// onto process exit codes.
//
// Components wrap one of the sentinel errors below (directly or through one of
// the typed errors) so that the orchestrator and the CLI can classify any
// failure with errors.Is without knowing which component produced it.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSource is returned when the data directory or a source file is absent.
	ErrMissingSource = errors.New("missing source")

	// ErrMalformedRow is returned when a source row does not match the catalog.
	ErrMalformedRow = errors.New("malformed row")

	// ErrInvalidTimestamp is returned for epoch values outside the representable range.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrConstraintViolation is returned by strict validation.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrStoreConnectivity is returned when the store cannot be reached or authenticated against.
	ErrStoreConnectivity = errors.New("store connectivity failure")

	// ErrStoreWrite is returned when the store rejects a table write.
	ErrStoreWrite = errors.New("store write failure")
)

// RowError locates a parse failure within a source file.
type RowError struct {
	File   string
	Line   int // 1-based physical line
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.File, e.Line, e.Reason)
}

func (e *RowError) Unwrap() error { return ErrMalformedRow }

// TimestampError reports an epoch value that cannot be represented.
type TimestampError struct {
	Row   int // 1-based row within the ratings table
	Value int64
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("rating row %d: epoch seconds %d out of range", e.Row, e.Value)
}

func (e *TimestampError) Unwrap() error { return ErrInvalidTimestamp }

// TableError names the store table a write failed on.
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %s: %v", e.Table, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

// StageError names the pipeline stage that failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Category is the coarse classification surfaced to operators.
type Category int

const (
	CategoryNone Category = iota
	CategoryGeneric
	CategoryMissingSource
	CategoryData
	CategoryConnectivity
	CategoryWrite
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "ok"
	case CategoryMissingSource:
		return "missing-source"
	case CategoryData:
		return "data"
	case CategoryConnectivity:
		return "connectivity"
	case CategoryWrite:
		return "write"
	default:
		return "generic"
	}
}

// Categorize classifies err. Connectivity wins over write so that a write
// that lost its connection is reported as a connectivity failure.
func Categorize(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrMissingSource):
		return CategoryMissingSource
	case errors.Is(err, ErrMalformedRow),
		errors.Is(err, ErrInvalidTimestamp),
		errors.Is(err, ErrConstraintViolation):
		return CategoryData
	case errors.Is(err, ErrStoreConnectivity):
		return CategoryConnectivity
	case errors.Is(err, ErrStoreWrite):
		return CategoryWrite
	default:
		return CategoryGeneric
	}
}

// ExitCode maps err to the process exit status.
//
//	0 success, 1 generic, 2 missing source, 3 data,
//	4 store connectivity, 5 store write
func ExitCode(err error) int {
	switch Categorize(err) {
	case CategoryNone:
		return 0
	case CategoryMissingSource:
		return 2
	case CategoryData:
		return 3
	case CategoryConnectivity:
		return 4
	case CategoryWrite:
		return 5
	default:
		return 1
	}
}
