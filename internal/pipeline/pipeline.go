// Package pipeline runs one ml-100k load end to end:
//
//	bootstrap → ingest → flatten → normalize → validate → aggregate → render → persist
//
// A failure in any stage stops the run. The returned Summary records how far
// the run got, and the error is an *apperrors.StageError naming the stage.
package pipeline

import (
	"context"
	"errors"
	"time"

	"ml100k/internal/aggregate"
	"ml100k/internal/apperrors"
	"ml100k/internal/catalog"
	"ml100k/internal/dataset"
	"ml100k/internal/ingest"
	"ml100k/internal/logging"
	"ml100k/internal/metrics"
	"ml100k/internal/render"
	"ml100k/internal/retry"
	"ml100k/internal/storage"
	"ml100k/internal/transform"
	"ml100k/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage names, as they appear in logs, metrics and StageError.
const (
	StageBootstrap = "bootstrap"
	StageIngest    = "ingest"
	StageFlatten   = "flatten"
	StageNormalize = "normalize"
	StageValidate  = "validate"
	StageAggregate = "aggregate"
	StageRender    = "render"
	StagePersist   = "persist"
)

const defaultTopN = 5

// Options configure a run.
type Options struct {
	Job     string
	DataDir string

	Store         storage.Config
	SkipBootstrap bool

	// Sink receives every chart; nil discards them.
	Sink       render.Sink
	Validation validate.Policy

	WriteTimeout time.Duration
	Retry        retry.Config

	// TopN is the number of best-rated movies logged; 0 means 5.
	TopN int
}

// Pipeline is a configured run. It is not safe for concurrent Run calls.
type Pipeline struct {
	opts   Options
	logger *zap.Logger

	// Seams for tests.
	openStore func(context.Context, storage.Config) (storage.Store, error)
	ensureDB  func(context.Context, storage.Config) (bool, error)
}

// New returns a Pipeline. A nil logger discards output.
func New(opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Sink == nil {
		opts.Sink = render.NopSink{}
	}
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}
	return &Pipeline{
		opts:      opts,
		logger:    logger,
		openStore: storage.New,
		ensureDB:  storage.EnsureDatabase,
	}
}

// Run executes every stage in order. The Summary is returned even on
// failure.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	s := &Summary{
		RunID:           uuid.NewString(),
		SourcesExpected: len(catalog.All()),
	}
	log := p.logger.With(zap.String("run_id", s.RunID), zap.String("job", p.opts.Job))
	log.Info("run started",
		zap.String("data_dir", p.opts.DataDir),
		zap.String("store", p.opts.Store.Kind),
		zap.String("validation", string(p.opts.Validation)))

	start := time.Now()
	err := p.run(ctx, s, log)
	s.Duration = time.Since(start)
	s.Err = err

	if err != nil {
		log.Error("run failed",
			zap.String("stage", s.FailedStage),
			zap.Stringer("category", apperrors.Categorize(err)),
			zap.String("error", logging.SanitizeError(err)),
			zap.Duration("duration", s.Duration))
	} else {
		log.Info("run complete", zap.Duration("duration", s.Duration))
	}
	log.Info(s.String())
	return s, err
}

func (p *Pipeline) run(ctx context.Context, s *Summary, log *zap.Logger) error {
	if !p.opts.SkipBootstrap {
		if err := p.stage(ctx, s, log, StageBootstrap, func(ctx context.Context) error {
			return p.bootstrap(ctx, log)
		}); err != nil {
			return err
		}
	}

	var raw *dataset.Raw
	if err := p.stage(ctx, s, log, StageIngest, func(ctx context.Context) error {
		var err error
		raw, s.Sources, err = ingest.New(p.opts.DataDir, log).Load(ctx)
		for _, c := range s.Sources {
			metrics.RecordRows(p.opts.Job, metrics.KindIngested, c.File, int64(c.Rows))
		}
		return err
	}); err != nil {
		return err
	}

	var tables dataset.Tables
	tables.Users = raw.Users
	if err := p.stage(ctx, s, log, StageFlatten, func(context.Context) error {
		tables.Items = transform.FlattenGenres(raw.Items)
		return nil
	}); err != nil {
		return err
	}
	if err := p.stage(ctx, s, log, StageNormalize, func(context.Context) error {
		var err error
		tables.Ratings, err = transform.NormalizeTimestamps(raw.Ratings)
		return err
	}); err != nil {
		return err
	}

	s.Users, s.Movies, s.Ratings = len(tables.Users), len(tables.Items), len(tables.Ratings)
	s.Fingerprints = dataset.Fingerprint(tables)
	log.Info("tables ready",
		zap.Int("users", s.Users),
		zap.Int("movies", s.Movies),
		zap.Int("ratings", s.Ratings),
		zap.Uint64("fp_users", s.Fingerprints.Users),
		zap.Uint64("fp_movies", s.Fingerprints.Items),
		zap.Uint64("fp_ratings", s.Fingerprints.Ratings))

	if err := p.stage(ctx, s, log, StageValidate, func(context.Context) error {
		found, err := validate.Apply(p.opts.Validation, tables, log)
		s.Violations = len(validate.Fatal(found))
		metrics.RecordRows(p.opts.Job, metrics.KindViolation, "", int64(s.Violations))
		return err
	}); err != nil {
		return err
	}

	if err := p.stage(ctx, s, log, StageAggregate, func(ctx context.Context) error {
		var err error
		s.Reports, err = aggregate.Compute(ctx, tables)
		if err == nil {
			p.logReports(log, s.Reports)
		}
		return err
	}); err != nil {
		return err
	}

	if err := p.stage(ctx, s, log, StageRender, func(ctx context.Context) error {
		for _, c := range s.Reports.Charts() {
			if err := p.opts.Sink.Render(ctx, c); err != nil {
				return err
			}
			s.Charts++
		}
		return nil
	}); err != nil {
		return err
	}

	return p.stage(ctx, s, log, StagePersist, func(ctx context.Context) error {
		return p.persist(ctx, s, log, tables)
	})
}

// stage runs fn, records its metrics and wraps a failure in a StageError.
func (p *Pipeline) stage(ctx context.Context, s *Summary, log *zap.Logger, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		s.FailedStage = name
		return &apperrors.StageError{Stage: name, Err: err}
	}

	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	metrics.RecordStage(p.opts.Job, name, err, d)

	if err != nil {
		s.FailedStage = name
		return &apperrors.StageError{Stage: name, Err: err}
	}
	log.Debug("stage complete", zap.String("stage", name), zap.Duration("duration", d))
	return nil
}

func (p *Pipeline) bootstrap(ctx context.Context, log *zap.Logger) error {
	created, err := p.ensureDB(ctx, p.opts.Store)
	if err != nil {
		return err
	}
	if created {
		log.Info("database created", zap.String("database", p.opts.Store.Database))
	} else {
		log.Debug("database present", zap.String("database", p.opts.Store.Database))
	}
	return nil
}

// persist owns the store handle for the duration of the writes.
func (p *Pipeline) persist(ctx context.Context, s *Summary, log *zap.Logger, tables dataset.Tables) error {
	fields := []zap.Field{zap.String("store", p.opts.Store.Kind)}
	if p.opts.Store.DSN != "" {
		fields = append(fields, logging.DSN(p.opts.Store.DSN))
	} else {
		fields = append(fields,
			zap.String("host", p.opts.Store.Host),
			zap.String("database", p.opts.Store.Database))
	}
	log.Info("connecting to store", fields...)

	store, err := p.openStore(ctx, p.opts.Store)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("closing store", zap.Error(cerr))
		}
	}()

	w := storage.NewWriter(store, log, storage.WriterOptions{
		Job:     p.opts.Job,
		Timeout: p.opts.WriteTimeout,
		Retry:   p.opts.Retry,
	})
	s.Tables, err = w.WriteAll(ctx, tables)

	var te *apperrors.TableError
	if errors.As(err, &te) {
		s.FailedTable = te.Table
	}
	return err
}

func (p *Pipeline) logReports(log *zap.Logger, r *aggregate.Reports) {
	for _, vc := range r.RatingDistribution {
		log.Info("rating distribution", zap.Int("rating", vc.Value), zap.Int("count", vc.Count))
	}
	for i, m := range aggregate.TopItemMeans(r.ItemMeans, p.opts.TopN) {
		log.Info("top rated movie",
			zap.Int("rank", i+1),
			zap.Int("movie_id", m.MovieID),
			zap.Float64("mean", m.Mean),
			zap.Int("ratings", m.N))
	}
}
