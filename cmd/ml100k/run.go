package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ml100k/internal/config"
	"ml100k/internal/logging"
	"ml100k/internal/metrics"
	"ml100k/internal/metrics/datadog"
	"ml100k/internal/metrics/prompush"
	"ml100k/internal/pipeline"
	"ml100k/internal/render"
	"ml100k/internal/retry"
	"ml100k/internal/storage"
	"ml100k/internal/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errInvalidConfig reports a config that failed validation.
var errInvalidConfig = errors.New("invalid configuration")

func runPipeline(cmd *cobra.Command, f *flags) error {
	cfg, err := f.load(cmd)
	if err != nil {
		return err
	}
	if issues := config.Validate(*cfg); config.HasErrors(issues) {
		printIssues(cmd, issues)
		return errInvalidConfig
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	flush := setupMetrics(cfg, logger)
	defer flush()

	opts, err := pipelineOptions(cfg, cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.New(opts, logger).Run(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), summary.String())
	return err
}

func pipelineOptions(cfg *config.Config, cmd *cobra.Command) (pipeline.Options, error) {
	sink, err := render.NewSink(render.Mode(cfg.Render.Mode), cfg.Render.OutputDir, cmd.OutOrStdout())
	if err != nil {
		return pipeline.Options{}, err
	}
	policy, err := validate.ParsePolicy(cfg.Validation.Policy)
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Job:     cfg.Job,
		DataDir: cfg.DataDir,
		Store: storage.Config{
			Kind:           cfg.Store.Kind,
			DSN:            cfg.Store.DSN,
			Host:           cfg.Store.Host,
			Port:           cfg.Store.Port,
			User:           cfg.Store.User,
			Password:       cfg.Store.Password,
			Database:       cfg.Store.Database,
			ConnectTimeout: cfg.Runtime.ConnectTimeout,
		},
		SkipBootstrap: cfg.Store.SkipBootstrap,
		Sink:          sink,
		Validation:    policy,
		WriteTimeout:  cfg.Runtime.WriteTimeout,
		Retry: retry.Config{
			MaxRetries:   cfg.Runtime.MaxRetries,
			InitialDelay: cfg.Runtime.RetryInitialDelay,
			MaxDelay:     cfg.Runtime.RetryMaxDelay,
			Multiplier:   2,
		},
	}, nil
}

// setupMetrics installs the configured backend and returns its flush
// function. A backend that fails to start leaves metrics disabled.
func setupMetrics(cfg *config.Config, logger *zap.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch cfg.Metrics.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{Addr: cfg.Metrics.DatadogAddr})
	case "", "none":
		logger.Debug("metrics disabled")
		return func() {}
	default:
		logger.Warn("unknown metrics backend; metrics disabled", zap.String("backend", cfg.Metrics.Backend))
		return func() {}
	}
	if err != nil {
		logger.Warn("metrics backend init failed; metrics disabled",
			zap.String("backend", cfg.Metrics.Backend), zap.Error(err))
		return func() {}
	}

	logger.Info("metrics enabled", zap.String("backend", cfg.Metrics.Backend))
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			logger.Warn("metrics flush failed", zap.Error(err))
		}
		metrics.SetBackend(nil)
	}
}
