package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

// EnsureDatabase creates the database named in dsn when sys.databases does
// not list it. The lookup and CREATE run against master.
func EnsureDatabase(ctx context.Context, dsn string) (bool, error) {
	p, err := msdsn.Parse(dsn)
	if err != nil {
		return false, fmt.Errorf("mssql dsn: %w", err)
	}
	target := p.Database
	if target == "" || strings.EqualFold(target, "master") {
		return false, nil
	}

	p.Database = "master"
	db := sql.OpenDB(mssql.NewConnectorConfig(p))
	defer db.Close()

	var n int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sys.databases WHERE name = @p1", target,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("look up database %s: %w", target, err)
	}
	if n > 0 {
		return false, nil
	}

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+quoteIdent(target)); err != nil {
		return false, fmt.Errorf("create database %s: %w", target, err)
	}
	return true, nil
}
