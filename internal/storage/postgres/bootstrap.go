package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// maintenanceDB is the database used to look up and create others.
const maintenanceDB = "postgres"

// EnsureDatabase creates the database named in dsn if pg_database does not
// list it. It connects to the maintenance database to do so.
func EnsureDatabase(ctx context.Context, dsn string) (bool, error) {
	cc, err := pgx.ParseConfig(dsn)
	if err != nil {
		return false, fmt.Errorf("postgres dsn: %w", err)
	}
	target := cc.Database
	if target == "" || target == maintenanceDB {
		return false, nil
	}

	cc.Database = maintenanceDB
	conn, err := pgx.ConnectConfig(ctx, cc)
	if err != nil {
		return false, fmt.Errorf("connect to %s: %w", maintenanceDB, err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", target,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("look up database %s: %w", target, err)
	}
	if exists {
		return false, nil
	}

	// CREATE DATABASE takes no bind parameters.
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{target}.Sanitize()); err != nil {
		return false, fmt.Errorf("create database %s: %w", target, err)
	}
	return true, nil
}
