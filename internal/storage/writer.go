package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ml100k/internal/apperrors"
	"ml100k/internal/dataset"
	"ml100k/internal/ddl"
	"ml100k/internal/metrics"
	"ml100k/internal/retry"

	"go.uber.org/zap"
)

// TableResult is the outcome of one table write.
type TableResult struct {
	Table    string
	Rows     int64
	Attempts int
	Duration time.Duration
	Skipped  bool
	Err      error
}

// WriterOptions tune a Writer.
type WriterOptions struct {
	Job string
	// Timeout bounds each attempt; zero disables it.
	Timeout time.Duration
	// Retry is the backoff policy; the zero value means retry.DefaultConfig.
	Retry retry.Config
}

// Writer persists tables through a Store, one table at a time.
type Writer struct {
	store  Store
	logger *zap.Logger
	opts   WriterOptions

	// mu serializes writes so two replaces of one table never interleave.
	mu sync.Mutex
}

// NewWriter returns a Writer over store. A nil logger discards output.
func NewWriter(store Store, logger *zap.Logger, opts WriterOptions) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Retry == (retry.Config{}) {
		opts.Retry = retry.DefaultConfig()
	}
	return &Writer{store: store, logger: logger, opts: opts}
}

// WriteAll writes Users, Movies and Ratings in that order. The first failure
// stops the run: its result carries the error, later tables are marked
// Skipped, and the returned error is an *apperrors.TableError.
func (w *Writer) WriteAll(ctx context.Context, t dataset.Tables) ([]TableResult, error) {
	plan := []struct {
		def  ddl.TableDef
		rows [][]any
	}{
		{ddl.Users, dataset.UserRows(t.Users)},
		{ddl.Movies, dataset.ItemRows(t.Items)},
		{ddl.Ratings, dataset.RatingRows(t.Ratings)},
	}

	results := make([]TableResult, 0, len(plan))
	var firstErr error
	for _, p := range plan {
		if firstErr != nil {
			results = append(results, TableResult{Table: p.def.Name, Skipped: true})
			w.logger.Warn("table skipped", zap.String("table", p.def.Name))
			continue
		}
		res := w.Write(ctx, p.def, p.rows)
		results = append(results, res)
		firstErr = res.Err
	}
	return results, firstErr
}

// Write replaces one table, retrying transient failures. Each attempt runs
// under the configured timeout.
func (w *Writer) Write(ctx context.Context, def ddl.TableDef, rows [][]any) TableResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	log := w.logger.With(zap.String("table", def.Name))
	res := TableResult{Table: def.Name}
	start := time.Now()

	err := retry.DoNotify(ctx, w.opts.Retry, func() error {
		res.Attempts++
		actx, cancel := w.attemptContext(ctx)
		defer cancel()

		n, err := w.store.ReplaceTable(actx, def, rows)
		if err != nil {
			if ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
				return &attemptTimeoutError{after: w.opts.Timeout, err: err}
			}
			return err
		}
		res.Rows = n
		return nil
	}, func(err error, wait time.Duration) {
		metrics.RecordRetry(w.opts.Job, def.Name)
		log.Warn("table write failed, retrying",
			zap.Int("attempt", res.Attempts),
			zap.Duration("backoff", wait),
			zap.Error(err))
	})
	res.Duration = time.Since(start)

	if err != nil {
		res.Err = &apperrors.TableError{Table: def.Name, Err: classify(ctx, err)}
		log.Error("table write failed",
			zap.Int("attempts", res.Attempts),
			zap.Duration("duration", res.Duration),
			zap.Error(err))
		return res
	}

	metrics.RecordRows(w.opts.Job, metrics.KindPersisted, def.Name, res.Rows)
	log.Info("table written",
		zap.Int64("rows", res.Rows),
		zap.Int("attempts", res.Attempts),
		zap.Duration("duration", res.Duration))
	return res
}

func (w *Writer) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.opts.Timeout)
}

// attemptTimeoutError is a write attempt that outlived its timeout while the
// run was still live. The store stopped answering, so it is a retryable
// connectivity failure.
type attemptTimeoutError struct {
	after time.Duration
	err   error
}

func (e *attemptTimeoutError) Error() string {
	return fmt.Sprintf("write attempt timed out after %s: %v", e.after, e.err)
}

// Unwrap omits the context error: the attempt deadline is not the run's.
func (e *attemptTimeoutError) Unwrap() error { return apperrors.ErrStoreConnectivity }

func (e *attemptTimeoutError) IsRetryable() bool { return true }

// classify tags err with the store sentinel. Transient errors that outlived
// the retries mean the store is unreachable; anything else is a write
// failure. Cancellation of the run itself is passed through untagged.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	if errors.Is(err, apperrors.ErrStoreConnectivity) || errors.Is(err, apperrors.ErrStoreWrite) {
		return err
	}
	if retry.IsRetryable(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrStoreConnectivity, err)
	}
	return fmt.Errorf("%w: %w", apperrors.ErrStoreWrite, err)
}
