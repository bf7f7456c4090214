package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// EnsureDatabase creates the schema named in dsn when
// INFORMATION_SCHEMA.SCHEMATA does not list it.
func EnsureDatabase(ctx context.Context, dsn string) (bool, error) {
	mc, err := parseDSN(dsn)
	if err != nil {
		return false, err
	}
	target := mc.DBName
	if target == "" {
		return false, nil
	}

	server := mc.Clone()
	server.DBName = ""
	conn, err := mysql.NewConnector(server)
	if err != nil {
		return false, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(conn)
	defer db.Close()

	var n int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?", target,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("look up database %s: %w", target, err)
	}
	if n > 0 {
		return false, nil
	}

	if _, err := db.ExecContext(ctx,
		"CREATE DATABASE "+quoteIdent(target)+" DEFAULT CHARACTER SET utf8mb4"); err != nil {
		return false, fmt.Errorf("create database %s: %w", target, err)
	}
	return true, nil
}
