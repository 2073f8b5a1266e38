// Package config loads process configuration from the environment and
// simulation scenarios from YAML files.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/signalsfoundry/hf-propagation-sim/catalog"
	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/internal/observability"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
)

// ErrInvalidConfig is wrapped by every validation failure in this package.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the server and CLI configuration.
type Config struct {
	GRPCAddr    string `env:"HFPROP_GRPC_ADDR,default=:50061"`
	MetricsAddr string `env:"HFPROP_METRICS_ADDR,default=:9464"`

	ActivityLevel  string `env:"HFPROP_ACTIVITY_LEVEL,default=normal"`
	DefaultAntenna string `env:"HFPROP_DEFAULT_ANTENNA,default=dipole"`
	DefaultPower   string `env:"HFPROP_DEFAULT_POWER,default=standard"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	TracingEnabled     bool    `env:"HFPROP_TRACING_ENABLED,default=false"`
	TracingExporter    string  `env:"HFPROP_TRACING_EXPORTER,default=stdout"`
	TracingEndpoint    string  `env:"HFPROP_OTLP_ENDPOINT"`
	TracingServiceName string  `env:"HFPROP_TRACING_SERVICE_NAME,default=hfprop-grpc"`
	TracingSampleRatio float64 `env:"HFPROP_TRACING_SAMPLE_RATIO,default=1"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values. Unknown antenna and power ids are
// rejected here even though the engine would fall back to defaults, so
// typos surface at startup.
func (c *Config) Validate() error {
	if _, ok := spaceweather.ParseActivityLevel(c.ActivityLevel); !ok {
		return fmt.Errorf("%w: HFPROP_ACTIVITY_LEVEL %q", ErrInvalidConfig, c.ActivityLevel)
	}
	if _, ok := catalog.LookupAntenna(c.DefaultAntenna); !ok {
		return fmt.Errorf("%w: HFPROP_DEFAULT_ANTENNA %q", ErrInvalidConfig, c.DefaultAntenna)
	}
	if _, ok := catalog.LookupPower(c.DefaultPower); !ok {
		return fmt.Errorf("%w: HFPROP_DEFAULT_POWER %q", ErrInvalidConfig, c.DefaultPower)
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return fmt.Errorf("%w: HFPROP_TRACING_SAMPLE_RATIO %v outside [0, 1]", ErrInvalidConfig, c.TracingSampleRatio)
	}
	return nil
}

// Activity returns the parsed activity level.
func (c *Config) Activity() spaceweather.ActivityLevel {
	level, _ := spaceweather.ParseActivityLevel(c.ActivityLevel)
	return level
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}

// Tracing returns the tracer provider settings.
func (c *Config) Tracing() observability.TracingConfig {
	return observability.TracingConfig{
		Enabled:     c.TracingEnabled,
		ServiceName: c.TracingServiceName,
		Exporter:    c.TracingExporter,
		Endpoint:    c.TracingEndpoint,
		SampleRatio: c.TracingSampleRatio,
	}
}
