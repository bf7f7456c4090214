package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ml100k/internal/ddl"
	"ml100k/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	r, closeFn, err := NewRepository(context.Background(), Config{DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(closeFn)
	return r
}

// TestReplaceTable_ReplacesContents verifies that a second replace leaves
// only the second set of rows.
func TestReplaceTable_ReplacesContents(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	first := [][]any{
		{int64(1), int64(24), "M", "technician", "85711"},
		{int64(2), int64(53), "F", "other", "94043"},
	}
	n, err := r.ReplaceTable(ctx, ddl.Users, first)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	second := first[:1]
	n, err = r.ReplaceTable(ctx, ddl.Users, second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int
	require.NoError(t, r.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM "Users"`).Scan(&count))
	assert.Equal(t, 1, count)
}

// TestReplaceTable_ValuesRoundTrip verifies NULLs and timestamps survive.
func TestReplaceTable_ValuesRoundTrip(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.ReplaceTable(ctx, ddl.Movies, [][]any{
		{int64(2), "Unknown", nil, nil, nil, ""},
	})
	require.NoError(t, err)

	var release, imdb *string
	var genres string
	require.NoError(t, r.DB().QueryRowContext(ctx,
		`SELECT "release_date", "imdb_url", "genres" FROM "Movies" WHERE "movie_id" = 2`).
		Scan(&release, &imdb, &genres))
	assert.Nil(t, release)
	assert.Nil(t, imdb)
	assert.Equal(t, "", genres)

	ts := time.Unix(881250949, 0).UTC()
	_, err = r.ReplaceTable(ctx, ddl.Ratings, [][]any{{int64(1), int64(2), int64(3), ts}})
	require.NoError(t, err)

	var got time.Time
	require.NoError(t, r.DB().QueryRowContext(ctx, `SELECT "timestamp" FROM "Ratings"`).Scan(&got))
	assert.True(t, ts.Equal(got), "got %s", got)
}

// TestReplaceTable_RowWidthMismatch verifies the transaction rolls back and
// the previous table survives.
func TestReplaceTable_RowWidthMismatch(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.ReplaceTable(ctx, ddl.Ratings, [][]any{{int64(1), int64(2), int64(3), time.Unix(0, 0)}})
	require.NoError(t, err)

	_, err = r.ReplaceTable(ctx, ddl.Ratings, [][]any{{int64(1)}})
	require.Error(t, err)

	var count int
	require.NoError(t, r.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM "Ratings"`).Scan(&count))
	assert.Equal(t, 1, count)
}

// TestEnsureDatabase verifies the file is created once.
func TestEnsureDatabase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "movielens.db")
	created, err := EnsureDatabase(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, created)
	_, err = os.Stat(path)
	require.NoError(t, err)

	created, err = EnsureDatabase(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = EnsureDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	assert.False(t, created)
}

// TestRegistrationUsesHook verifies the registered factory goes through
// newRepository and that Close reaches the close function. It swaps a
// package variable, so it does not run in parallel.
func TestRegistrationUsesHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	closed := false
	fake := &Repository{}
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return fake, func() { closed = true }, nil
	}

	s, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", Database: "movielens"})
	require.NoError(t, err)
	assert.Equal(t, "movielens.db", gotCfg.DSN)

	w, ok := s.(*wrappedRepo)
	require.True(t, ok)
	assert.Same(t, fake, w.Repository)

	require.NoError(t, s.Close())
	assert.True(t, closed)

	assert.Contains(t, storage.ListKinds(), "sqlite")
}
