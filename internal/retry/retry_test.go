package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(retries int) Config {
	return Config{
		MaxRetries:   retries,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

type declared struct{ retry bool }

func (d declared) Error() string      { return "declared" }
func (d declared) IsRetryable() bool { return d.retry }

// TestIsRetryable verifies classification of transient and permanent errors.
func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline wrapped", err: fmt.Errorf("write: %w", context.DeadlineExceeded), want: false},
		{name: "bad conn", err: driver.ErrBadConn, want: true},
		{name: "refused text", err: errors.New("dial tcp 127.0.0.1:1433: connect: connection refused"), want: true},
		{name: "pg deadlock", err: &pgconn.PgError{Code: "40P01"}, want: true},
		{name: "pg syntax", err: &pgconn.PgError{Code: "42601", Message: "syntax error"}, want: false},
		{name: "mysql deadlock", err: &mysql.MySQLError{Number: 1213}, want: true},
		{name: "mysql access denied", err: &mysql.MySQLError{Number: 1045, Message: "Access denied"}, want: false},
		{name: "declared yes", err: fmt.Errorf("x: %w", declared{retry: true}), want: true},
		{name: "declared no", err: declared{retry: false}, want: false},
		{name: "plain", err: errors.New("invalid column name"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

// TestDoNotify_SuccessAfterRetries verifies transient errors are retried.
func TestDoNotify_SuccessAfterRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	var notified []error
	err := DoNotify(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return driver.ErrBadConn
		}
		return nil
	}, func(err error, _ time.Duration) { notified = append(notified, err) })

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, notified, 2)
}

// TestDoNotify_Exhausted verifies the last error is returned after MaxRetries.
func TestDoNotify_Exhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	err := DoNotify(context.Background(), fastConfig(2), func() error {
		calls++
		return driver.ErrBadConn
	}, nil)
	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.Equal(t, 3, calls)
}

// TestDoNotify_Permanent verifies non-retryable errors stop immediately and come
// back unwrapped.
func TestDoNotify_Permanent(t *testing.T) {
	t.Parallel()

	perm := errors.New("permission denied for table")
	calls := 0
	err := DoNotify(context.Background(), fastConfig(5), func() error {
		calls++
		return perm
	}, nil)
	assert.Same(t, perm, err)
	assert.Equal(t, 1, calls)
}

// TestDoNotify_Canceled verifies a canceled context ends the loop.
func TestDoNotify_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := DoNotify(ctx, fastConfig(5), func() error {
		calls++
		return nil
	}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.InitialDelay)
	assert.Equal(t, 5*time.Second, cfg.MaxDelay)
}
