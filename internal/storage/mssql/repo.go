// Package mssql implements storage.Store on go-mssqldb. Rows are loaded with
// the bulk copy API inside the same transaction as the DROP and CREATE.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"ml100k/internal/ddl"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

const defaultPort = 1433

// Config holds MSSQL repository configuration.
type Config struct {
	DSN string
}

// Repository is a SQL Server-backed storage.Store.
type Repository struct {
	db *sql.DB
}

// NewRepository parses the DSN, opens a pool, pings it, and returns a close
// function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	p, err := msdsn.Parse(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db := sql.OpenDB(mssql.NewConnectorConfig(p))
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// ReplaceTable drops and recreates def and bulk-copies rows into it.
func (r *Repository) ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	create, err := BuildCreateTableSQL(def)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, BuildDropTableSQL(def.Name)); err != nil {
		return 0, fmt.Errorf("drop %s: %w", def.Name, err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", def.Name, err)
	}

	var n int64
	if len(rows) > 0 {
		if n, err = bulkCopy(ctx, tx, def, rows); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func bulkCopy(ctx context.Context, tx *sql.Tx, def ddl.TableDef, rows [][]any) (int64, error) {
	stmt, err := tx.PrepareContext(ctx,
		mssql.CopyIn(quoteFQN(def.Name), mssql.BulkOptions{Tablock: true}, def.ColumnNames()...))
	if err != nil {
		return 0, fmt.Errorf("prepare bulk %s: %w", def.Name, err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("bulk row %d into %s: %w", i, def.Name, err)
		}
	}
	// An Exec without arguments flushes the batch.
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("bulk finalize %s: %w", def.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// BuildDSN renders a sqlserver:// URL from discrete fields.
func BuildDSN(host string, port int, user, password, database string, connectTimeout time.Duration) string {
	if port == 0 {
		port = defaultPort
	}
	u := url.URL{
		Scheme: "sqlserver",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	q := url.Values{}
	if database != "" {
		q.Set("database", database)
	}
	if connectTimeout > 0 {
		q.Set("connection timeout", strconv.Itoa(int((connectTimeout+time.Second-1)/time.Second)))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
