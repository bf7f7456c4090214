package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path is the dotted YAML path.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Known option sets.
var (
	StoreKinds         = []string{"mssql", "postgres", "mysql", "sqlite"}
	RenderModes        = []string{"file", "interactive", "none"}
	ValidationPolicies = []string{"off", "warn", "strict"}
	MetricsBackends    = []string{"none", "pushgateway", "datadog"}
	LogFormats         = []string{"console", "json"}
)

// Validate performs static checks over cfg and returns the findings.
// It does not mutate cfg.
func Validate(cfg Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job", "job must not be empty; it labels logs and metrics"})
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		issues = append(issues, Issue{SeverityError, "data_dir", "data_dir must not be empty"})
	}

	issues = append(issues, validateStore(cfg.Store)...)
	issues = append(issues, validateRender(cfg.Render)...)
	issues = append(issues, validateRuntime(cfg.Runtime)...)
	issues = append(issues, oneOf("validation.policy", cfg.Validation.Policy, ValidationPolicies)...)
	issues = append(issues, validateMetrics(cfg.Metrics)...)
	issues = append(issues, oneOf("log.format", cfg.Log.Format, LogFormats)...)

	return issues
}

func validateStore(s StoreConfig) []Issue {
	issues := oneOf("store.kind", s.Kind, StoreKinds)
	if s.DSN != "" {
		return issues
	}
	if strings.TrimSpace(s.Database) == "" {
		issues = append(issues, Issue{SeverityError, "store.database", "database must not be empty when no DSN is set"})
	}
	if s.Kind == "sqlite" {
		return issues
	}
	if strings.TrimSpace(s.Host) == "" {
		issues = append(issues, Issue{SeverityError, "store.host", "host must not be empty when no DSN is set"})
	}
	if s.Port < 0 || s.Port > 65535 {
		issues = append(issues, Issue{SeverityError, "store.port", fmt.Sprintf("port %d out of range", s.Port)})
	}
	if s.Password == "" {
		issues = append(issues, Issue{SeverityWarning, "store.password", "no password set; ML_STORE_PASSWORD is usually required"})
	}
	return issues
}

func validateRender(r RenderConfig) []Issue {
	issues := oneOf("render.mode", r.Mode, RenderModes)
	if r.Mode == "file" && strings.TrimSpace(r.OutputDir) == "" {
		issues = append(issues, Issue{SeverityError, "render.output_dir", "file mode requires an output directory"})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue
	if r.WriteTimeout <= 0 {
		issues = append(issues, Issue{SeverityError, "runtime.write_timeout", "write_timeout must be positive"})
	}
	if r.ConnectTimeout <= 0 {
		issues = append(issues, Issue{SeverityError, "runtime.connect_timeout", "connect_timeout must be positive"})
	}
	if r.MaxRetries < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.max_retries", "max_retries must not be negative"})
	}
	if r.RetryMaxDelay > 0 && r.RetryInitialDelay > r.RetryMaxDelay {
		issues = append(issues, Issue{SeverityWarning, "runtime.retry_initial_delay", "initial delay exceeds max delay; max delay wins"})
	}
	return issues
}

func validateMetrics(m MetricsConfig) []Issue {
	issues := oneOf("metrics.backend", m.Backend, MetricsBackends)
	switch m.Backend {
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{SeverityError, "metrics.pushgateway_url", "pushgateway backend requires a URL"})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{SeverityError, "metrics.datadog_addr", "datadog backend requires an address"})
		}
	}
	return issues
}

func oneOf(path, v string, allowed []string) []Issue {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return []Issue{{
		Severity: SeverityError,
		Path:     path,
		Message:  fmt.Sprintf("unsupported value %q (want one of %s)", v, strings.Join(allowed, ", ")),
	}}
}
