package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// config is read from the environment so the CLI works unmodified in
// scripts and CI.
type config struct {
	// BaseURL is the job service root, e.g. "https://api.example.com".
	BaseURL string `env:"GENFLOW_BASE_URL"`

	// DataDir holds the durable caches. Empty uses ~/.genflow.
	DataDir string `env:"GENFLOW_DATA_DIR"`

	// ServiceKey, when set, enables HS256 service-token auth against
	// the job service.
	ServiceKey    string `env:"GENFLOW_SERVICE_KEY,unset"`
	TokenIssuer   string `env:"GENFLOW_TOKEN_ISSUER" envDefault:"genflow-cli"`
	TokenAudience string `env:"GENFLOW_TOKEN_AUDIENCE" envDefault:"genflow-jobs"`

	// App and CacheVersion segment the storage namespace.
	App          string `env:"GENFLOW_APP" envDefault:"genflow"`
	CacheVersion string `env:"GENFLOW_CACHE_VERSION" envDefault:"v1"`

	// Timeout bounds one whole resolve, submission included.
	Timeout time.Duration `env:"GENFLOW_TIMEOUT" envDefault:"10m"`

	// LogLevel is debug|info|warn|error.
	LogLevel string `env:"GENFLOW_LOG_LEVEL" envDefault:"info"`

	// TracingExporter and MetricsExporter enable telemetry when set
	// to a supported exporter (otlp, stdout; prometheus for metrics).
	TracingExporter string `env:"GENFLOW_TRACING_EXPORTER"`
	MetricsExporter string `env:"GENFLOW_METRICS_EXPORTER"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
