// Package config loads the run configuration from an optional YAML file and
// the environment.
//
// Values resolve in this order: env-default tag, YAML file, environment.
// Secrets (store password and raw DSN) are read from the environment only.
// The CLI applies explicitly set flags on top of the loaded value.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full configuration of one pipeline run.
type Config struct {
	// Job labels logs and metrics.
	Job string `yaml:"job" env:"ML_JOB" env-default:"ml100k"`

	// DataDir is the directory holding the five ml-100k files.
	DataDir string `yaml:"data_dir" env:"ML_DATA_DIR" env-default:"./ml-100k"`

	Store      StoreConfig      `yaml:"store"`
	Render     RenderConfig     `yaml:"render"`
	Runtime    RuntimeConfig    `yaml:"runtime"`
	Validation ValidationConfig `yaml:"validation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Log        LogConfig        `yaml:"log"`
}

// StoreConfig is the connection descriptor of the relational store.
type StoreConfig struct {
	// Kind selects the backend: mssql, postgres, mysql or sqlite.
	Kind string `yaml:"kind" env:"ML_STORE_KIND" env-default:"mssql"`

	// DSN, when set, is used verbatim and the discrete fields are ignored.
	DSN string `yaml:"-" env:"ML_STORE_DSN"`

	Host     string `yaml:"host" env:"ML_STORE_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"ML_STORE_PORT"` // 0 selects the backend default
	User     string `yaml:"user" env:"ML_STORE_USER" env-default:"sa"`
	Password string `yaml:"-" env:"ML_STORE_PASSWORD"`

	// Database is the target database name (a file path for sqlite).
	Database string `yaml:"database" env:"ML_STORE_DATABASE" env-default:"movielens"`

	// SkipBootstrap disables the create-if-absent check on Database.
	SkipBootstrap bool `yaml:"skip_bootstrap" env:"ML_STORE_SKIP_BOOTSTRAP"`
}

// RenderConfig selects where charts go.
type RenderConfig struct {
	// Mode is file, interactive or none.
	Mode      string `yaml:"mode" env:"ML_RENDER_MODE" env-default:"file"`
	OutputDir string `yaml:"output_dir" env:"ML_RENDER_OUTPUT_DIR" env-default:"plots"`
}

// RuntimeConfig bounds store writes.
type RuntimeConfig struct {
	WriteTimeout      time.Duration `yaml:"write_timeout" env:"ML_WRITE_TIMEOUT" env-default:"2m"`
	ConnectTimeout    time.Duration `yaml:"connect_timeout" env:"ML_CONNECT_TIMEOUT" env-default:"30s"`
	MaxRetries        int           `yaml:"max_retries" env:"ML_MAX_RETRIES" env-default:"3"`
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay" env:"ML_RETRY_INITIAL_DELAY" env-default:"200ms"`
	RetryMaxDelay     time.Duration `yaml:"retry_max_delay" env:"ML_RETRY_MAX_DELAY" env-default:"5s"`
}

// ValidationConfig controls the optional constraint checks.
type ValidationConfig struct {
	// Policy is off, warn or strict.
	Policy string `yaml:"policy" env:"ML_VALIDATION_POLICY" env-default:"off"`
}

// MetricsConfig selects the metrics backend.
type MetricsConfig struct {
	// Backend is none, pushgateway or datadog.
	Backend        string `yaml:"backend" env:"ML_METRICS_BACKEND" env-default:"none"`
	PushgatewayURL string `yaml:"pushgateway_url" env:"PUSHGATEWAY_URL" env-default:"http://localhost:9091"`
	DatadogAddr    string `yaml:"datadog_addr" env:"DD_DOGSTATSD_ADDR" env-default:"127.0.0.1:8125"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"ML_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"ML_LOG_FORMAT" env-default:"console"`
}

// Load reads the config from path, or from the environment alone when path is empty.
func Load(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return &cfg, nil
}
