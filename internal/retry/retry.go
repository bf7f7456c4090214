// Package retry retries transient store failures with exponential backoff.
package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
)

// Config defines retry behavior. MaxRetries counts retries after the first
// attempt; zero means a single attempt.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultConfig returns 3 retries starting at 200ms, doubling, capped at 5s.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

// Notify is called before each wait with the error that caused the retry.
type Notify func(err error, wait time.Duration)

// DoNotify runs fn until it succeeds, returns a non-retryable error,
// exhausts the retries or ctx ends. The last error from fn is returned
// unwrapped. notify, when set, is called before each retry.
func DoNotify(ctx context.Context, cfg Config, fn func() error, notify Notify) error {
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = cfg.InitialDelay
	eb.MaxInterval = cfg.MaxDelay
	eb.Multiplier = cfg.Multiplier
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(cfg.MaxRetries)), ctx)

	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		err := fn()
		if err != nil && !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var n backoff.Notify
	if notify != nil {
		n = backoff.Notify(notify)
	}
	return backoff.RetryNotify(op, b, n)
}

// Retryable is implemented by errors that declare their own retryability.
type Retryable interface {
	error
	IsRetryable() bool
}

// Server error codes treated as transient.
var (
	pgTransientCodes = map[string]bool{
		"40001": true, // serialization_failure
		"40P01": true, // deadlock_detected
		"53300": true, // too_many_connections
		"57P03": true, // cannot_connect_now
	}
	mssqlTransientNumbers = map[int32]bool{
		1205:  true, // deadlock victim
		40501: true, // service busy
		40613: true, // database unavailable
	}
	mysqlTransientNumbers = map[uint16]bool{
		1040: true, // too many connections
		1205: true, // lock wait timeout
		1213: true, // deadlock
	}
)

var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"timeout",
	"timed out",
	"temporary failure",
	"too many connections",
	"deadlock",
	"network is unreachable",
	"server closed",
	"bad connection",
}

// IsRetryable reports whether err is transient. Context cancellation and
// deadline expiry are never retryable; callers that own a per-attempt
// deadline wrap it in a Retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var r Retryable
	if errors.As(err, &r) {
		return r.IsRetryable()
	}

	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgTransientCodes[pgErr.Code]
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return mssqlTransientNumbers[msErr.Number]
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlTransientNumbers[myErr.Number]
	}

	msg := strings.ToLower(err.Error())
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
