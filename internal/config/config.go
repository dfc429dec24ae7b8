// Package config manages environment variables.
//
// It reads variables from the process environment (and from a `.env`
// file when present), loads them into structured Go types and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load defaults, then environment variables on top of them.
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every environment variable read by the service
// must carry. Nesting uses a double underscore:
//
//	ETUDIANTS_SERVER__PORT      -> server.port
//	ETUDIANTS_DATABASE__URI     -> database.uri
//	ETUDIANTS_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level
const EnvPrefix = "ETUDIANTS_"

// Store backends accepted by database.driver.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Jobs          JobsConfig           `koanf:"jobs"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimitPerSecond caps requests per client IP. Zero disables limiting.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second" validate:"min=0"`
}

// DatabaseConfig contains the document store connection parameters.
type DatabaseConfig struct {
	Driver         string `koanf:"driver" validate:"required,oneof=mongo memory"`
	URI            string `koanf:"uri" validate:"required_if=Driver mongo"`
	Name           string `koanf:"name" validate:"required_if=Driver mongo"`
	Collection     string `koanf:"collection" validate:"required"`
	ConnectTimeout int    `koanf:"connect_timeout" validate:"min=1"`
	MaxPoolSize    uint64 `koanf:"max_pool_size"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port". Empty means Redis is not used.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// JobsConfig toggles the background job worker (welcome e-mails).
// Jobs need Redis.
type JobsConfig struct {
	Enabled     bool `koanf:"enabled"`
	Concurrency int  `koanf:"concurrency" validate:"min=1"`
}

// IntegrationConfig stores third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

func defaults() map[string]any {
	return map[string]any{
		"primary.env":                  "development",
		"server.port":                  "8080",
		"server.read_timeout":          10,
		"server.write_timeout":         10,
		"server.idle_timeout":          60,
		"server.cors_allowed_origins":  []string{"*"},
		"server.rate_limit_per_second": 0,
		"database.driver":              DriverMongo,
		"database.collection":          "etudiants",
		"database.connect_timeout":     10,
		"database.max_pool_size":       100,
		"jobs.enabled":                 false,
		"jobs.concurrency":             10,
		"integration.email_from":       "Etudiants <onboarding@resend.dev>",
	}
}

// observabilityDefaults flattens DefaultObservabilityConfig so that a single
// ETUDIANTS_OBSERVABILITY__* variable overrides one value instead of
// replacing the whole block.
func observabilityDefaults() map[string]any {
	d := DefaultObservabilityConfig()
	return map[string]any{
		"observability.service_name":                          d.ServiceName,
		"observability.environment":                           d.Environment,
		"observability.logging.level":                         d.Logging.Level,
		"observability.logging.format":                        d.Logging.Format,
		"observability.logging.slow_query_threshold":          d.Logging.SlowQueryThreshold.String(),
		"observability.new_relic.license_key":                 d.NewRelic.LicenseKey,
		"observability.new_relic.app_log_forwarding_enabled":  d.NewRelic.AppLogForwardingEnabled,
		"observability.new_relic.distributed_tracing_enabled": d.NewRelic.DistributedTracingEnabled,
		"observability.new_relic.debug_logging":               d.NewRelic.DebugLogging,
		"observability.health_checks.enabled":                 d.HealthChecks.Enabled,
		"observability.health_checks.timeout":                 d.HealthChecks.Timeout.String(),
		"observability.health_checks.checks":                  d.HealthChecks.Checks,
	}
}

// envKey turns ETUDIANTS_SERVER__READ_TIMEOUT into server.read_timeout.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig loads configuration from defaults and environment variables,
// unmarshals it into Config, validates it, applies observability defaults and
// returns the resulting config.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}
	if err := k.Load(confmap.Provider(observabilityDefaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load observability defaults: %w", err)
	}

	// Values stay strings here; koanf's weakly typed decoder converts them to
	// ints, durations and comma separated lists during Unmarshal.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Jobs.Enabled && mainConfig.Redis.Address == "" {
		return nil, fmt.Errorf("config validation failed: jobs.enabled requires redis.address")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so telemetry stays consistent.
	mainConfig.Observability.ServiceName = "etudiants-api"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
