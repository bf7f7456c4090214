// Package postgres implements storage.Store on pgx v5. Each replace runs
// DROP, CREATE and a COPY in a single transaction, so readers see either
// the old table or the new one.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"ml100k/internal/ddl"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPort = 5432

// Config holds Postgres repository configuration.
type Config struct {
	DSN string
}

// Repository is a Postgres-backed storage.Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository opens a pool, verifies it with a ping, and returns a close
// function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{pool: pool}, pool.Close, nil
}

// ReplaceTable drops and recreates def and COPYs rows into it.
func (r *Repository) ReplaceTable(ctx context.Context, def ddl.TableDef, rows [][]any) (int64, error) {
	create, err := BuildCreateTableSQL(def)
	if err != nil {
		return 0, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, BuildDropTableSQL(def.Name)); err != nil {
		return 0, fmt.Errorf("drop %s: %w", def.Name, withDetail(err))
	}
	if _, err := tx.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", def.Name, withDetail(err))
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier(identifier(def.Name)), def.ColumnNames(), pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", def.Name, withDetail(err))
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// detailError keeps the PgError in the chain while adding its detail and
// location to the message.
type detailError struct {
	pg *pgconn.PgError
}

func (e *detailError) Error() string {
	msg := e.pg.Error()
	if e.pg.Detail != "" {
		msg += ": " + e.pg.Detail
	}
	if e.pg.ColumnName != "" {
		msg += " (column " + e.pg.ColumnName + ")"
	}
	return msg
}

func (e *detailError) Unwrap() error { return e.pg }

func withDetail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Detail != "" || pgErr.ColumnName != "") {
		return &detailError{pg: pgErr}
	}
	return err
}

// BuildDSN renders a postgres:// URL from discrete fields.
func BuildDSN(host string, port int, user, password, database string, connectTimeout time.Duration) string {
	if port == 0 {
		port = defaultPort
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + database,
	}
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	if connectTimeout > 0 {
		q := url.Values{}
		// Whole seconds, rounded up: "0" would mean no timeout.
		q.Set("connect_timeout", strconv.Itoa(int((connectTimeout+time.Second-1)/time.Second)))
		u.RawQuery = q.Encode()
	}
	return u.String()
}
