// Package mysql implements storage.Store on go-sql-driver/mysql.
//
// MySQL commits DDL implicitly, so a replace is not atomic: the table is
// dropped and recreated first, then rows are inserted in one transaction
// using multi-row INSERT batches.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"ml100k/internal/ddl"

	"github.com/go-sql-driver/mysql"
)

const (
	defaultPort = 3306
	// batchRows keeps each INSERT well under the 65535 placeholder limit.
	batchRows = 1000
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN string
}

// Repository is a MySQL-backed storage.Store.
type Repository struct {
	db *sql.DB
}

// NewRepository parses the DSN, opens a pool, pings it, and returns a close
// function. Timestamps are always read and written as UTC.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mc, err := parseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	conn, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(conn)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// ReplaceTable drops and recreates def, then inserts rows in batches.
func (r *Repository) ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	create, err := BuildCreateTableSQL(def)
	if err != nil {
		return 0, err
	}
	if _, err := r.db.ExecContext(ctx, BuildDropTableSQL(def.Name)); err != nil {
		return 0, fmt.Errorf("drop %s: %w", def.Name, err)
	}
	if _, err := r.db.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", def.Name, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var inserted int64
	args := make([]any, 0, batchRows*len(def.Columns))
	for start := 0; start < len(rows); start += batchRows {
		end := min(start+batchRows, len(rows))
		args = args[:0]
		for i, row := range rows[start:end] {
			if len(row) != len(def.Columns) {
				return 0, fmt.Errorf("row %d has %d values, table %s has %d columns",
					start+i, len(row), def.Name, len(def.Columns))
			}
			args = append(args, row...)
		}
		res, err := tx.ExecContext(ctx, BuildInsertSQL(def, end-start), args...)
		if err != nil {
			return 0, fmt.Errorf("insert rows %d-%d into %s: %w", start, end-1, def.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func parseDSN(dsn string) (*mysql.Config, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc, nil
}

// BuildDSN renders a driver DSN from discrete fields.
func BuildDSN(host string, port int, user, password, database string, connectTimeout time.Duration) string {
	if port == 0 {
		port = defaultPort
	}
	mc := mysql.NewConfig()
	mc.User = user
	mc.Passwd = password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = database
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = connectTimeout
	return mc.FormatDSN()
}
