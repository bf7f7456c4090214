package main

import (
	"ml100k/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flags holds the command-line overrides. A flag wins over file and env
// only when it was set explicitly.
type flags struct {
	configPath string

	dataDir        string
	storeKind      string
	storeHost      string
	storePort      int
	database       string
	skipBootstrap  bool
	renderMode     string
	outputDir      string
	validation     string
	metricsBackend string
	pushgatewayURL string
	logLevel       string
	logFormat      string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "ml100k",
		Short: "Load, report on and persist the MovieLens ml-100k dataset",
		Long: `ml100k reads the five ml-100k source files (u.genre, u.occupation, u.user,
u.item, u.data), flattens the genre flags, converts rating timestamps,
renders summary charts and replaces the Users, Movies and Ratings tables
in the configured store.

Configuration comes from an optional YAML file, then ML_* environment
variables, then explicitly set flags.`,
		Example: `  # Load into a local SQLite file without charts
  $ ml100k --store-kind sqlite --database ./movielens.db --render none

  # Lint a config file
  $ ml100k validate --config ml100k.yaml

  # Show the source layout and the Postgres DDL
  $ ml100k catalog --dialect postgres`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, f)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML config path (optional)")
	pf.StringVar(&f.dataDir, "data-dir", "", "directory holding the ml-100k files")
	pf.StringVar(&f.storeKind, "store-kind", "", "store backend: mssql, postgres, mysql or sqlite")
	pf.StringVar(&f.storeHost, "store-host", "", "store host")
	pf.IntVar(&f.storePort, "store-port", 0, "store port (0 selects the backend default)")
	pf.StringVar(&f.database, "database", "", "target database name, or file path for sqlite")
	pf.BoolVar(&f.skipBootstrap, "skip-bootstrap", false, "do not create the database when absent")
	pf.StringVar(&f.renderMode, "render", "", "chart output: file, interactive or none")
	pf.StringVar(&f.outputDir, "output-dir", "", "directory for chart images in file mode")
	pf.StringVar(&f.validation, "validation", "", "constraint checks: off, warn or strict")
	pf.StringVar(&f.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog")
	pf.StringVar(&f.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&f.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the pipeline (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runPipeline(cmd, f)
			},
		},
		newValidateCmd(f),
		newCatalogCmd(f),
	)
	return root
}

// load reads the config and applies the flags that were set on cmd.
func (f *flags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	f.apply(cmd.Flags(), cfg)
	return cfg, nil
}

func (f *flags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	changed := fs.Changed
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if changed("store-kind") {
		cfg.Store.Kind = f.storeKind
	}
	if changed("store-host") {
		cfg.Store.Host = f.storeHost
	}
	if changed("store-port") {
		cfg.Store.Port = f.storePort
	}
	if changed("database") {
		cfg.Store.Database = f.database
	}
	if changed("skip-bootstrap") {
		cfg.Store.SkipBootstrap = f.skipBootstrap
	}
	if changed("render") {
		cfg.Render.Mode = f.renderMode
	}
	if changed("output-dir") {
		cfg.Render.OutputDir = f.outputDir
	}
	if changed("validation") {
		cfg.Validation.Policy = f.validation
	}
	if changed("metrics-backend") {
		cfg.Metrics.Backend = f.metricsBackend
	}
	if changed("pushgateway-url") {
		cfg.Metrics.PushgatewayURL = f.pushgatewayURL
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
}
