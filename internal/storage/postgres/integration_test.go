//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ml100k/internal/ddl"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway server and returns a DSN for database.
func startPostgres(t *testing.T, database string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "ml",
			"POSTGRES_PASSWORD": "test_password",
			"POSTGRES_DB":       "postgres",
		},
		// The entrypoint restarts the server once after init.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://ml:test_password@%s:%s/%s?sslmode=disable", host, port.Port(), database)
}

// TestIntegration_BootstrapAndReplace verifies database creation and that
// replacing a table twice leaves exactly the second load.
func TestIntegration_BootstrapAndReplace(t *testing.T) {
	dsn := startPostgres(t, "movielens")
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	created, err := EnsureDatabase(ctx, dsn)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureDatabase(ctx, dsn)
	require.NoError(t, err)
	assert.False(t, created)

	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	defer closeFn()

	ts := time.Unix(874965758, 0).UTC()
	rows := [][]any{
		{int64(1), int64(1), int64(5), ts},
		{int64(2), int64(1), int64(3), ts},
	}
	n, err := repo.ReplaceTable(ctx, ddl.Ratings, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.ReplaceTable(ctx, ddl.Ratings, rows[:1])
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close(ctx)

	var count int
	var got time.Time
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*), MAX("timestamp") FROM "Ratings"`).Scan(&count, &got))
	assert.Equal(t, 1, count)
	assert.True(t, ts.Equal(got))

	_, err = repo.ReplaceTable(ctx, ddl.Movies, [][]any{{int64(1), nil, nil, nil, nil, ""}})
	require.Error(t, err, "NOT NULL title must be enforced")
}
