// Package sqlite implements storage.Store on modernc.org/sqlite. It needs no
// server, which makes it the backend for local runs and end-to-end tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"ml100k/internal/ddl"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Config holds SQLite repository configuration.
type Config struct {
	// DSN is a file path or a "file:" URI, e.g. "movielens.db" or
	// "file:movielens.db?_pragma=busy_timeout(5000)".
	DSN string
}

// Repository is a SQLite-backed storage.Store.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the database and returns a close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One connection: SQLite has a single writer, and each connection to
	// ":memory:" would otherwise see its own database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// ReplaceTable drops and recreates def, then inserts rows with a prepared
// statement, all in one transaction.
func (r *Repository) ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	create, err := BuildCreateTableSQL(def)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, BuildDropTableSQL(def.Name)); err != nil {
		return 0, fmt.Errorf("sqlite: drop %s: %w", def.Name, err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("sqlite: create %s: %w", def.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, BuildInsertSQL(def))
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		if len(row) != len(def.Columns) {
			return 0, fmt.Errorf("sqlite: row %d has %d values, table %s has %d columns",
				i, len(row), def.Name, len(def.Columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("sqlite: insert row %d into %s: %w", i, def.Name, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// DB exposes the handle for callers that need to read back.
func (r *Repository) DB() *sql.DB { return r.db }

// resolveDSN picks the connection string: an explicit DSN wins, otherwise
// Database is a file path with ".db" appended when it has no extension.
func resolveDSN(dsn, database string) string {
	if dsn != "" {
		return dsn
	}
	if database == "" {
		return ""
	}
	if filepath.Ext(database) == "" {
		return database + ".db"
	}
	return database
}
