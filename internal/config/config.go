// Package config defines service configuration and its loading.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the award catalog (.json, .yaml or .yml).
	CatalogPath string `koanf:"catalog_path"`

	// WorkerCount sets the number of bulk evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the bulk evaluation queue.
	QueueSize int `koanf:"queue_size"`

	// CacheSize bounds the evaluation result cache. Zero or less is unbounded.
	CacheSize int `koanf:"cache_size"`

	// EnforceCurrentYearForSustained forces every sustained requirement to
	// end in the current year, for every profile.
	EnforceCurrentYearForSustained bool `koanf:"enforce_current_year_for_sustained"`

	// Criteria maps custom criterion names to CEL expressions.
	Criteria map[string]string `koanf:"criteria"`

	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		CatalogPath:            "awards.yaml",
		WorkerCount:            runtime.NumCPU(),
		QueueSize:              1024,
		CacheSize:              10_000,
		Criteria:               map[string]string{},
		ShutdownTimeoutSeconds: 10,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.ShutdownTimeoutSeconds <= 0:
		return fmt.Errorf("%w: shutdown_timeout_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}
