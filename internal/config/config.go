// Package config provides configuration management for the robotics API.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nekazari/nkz-module-robotics/internal/robotconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ROBOTICS_SERVER_PORT.
const EnvPrefix = "ROBOTICS"

// Config holds all configuration for the robotics API.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Generator   GeneratorConfig   `mapstructure:"generator"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// GeneratorConfig holds the policy applied to every robot configuration document.
type GeneratorConfig struct {
	RouterEndpoints  []string      `mapstructure:"router_endpoints"`
	WatchdogTimeout  time.Duration `mapstructure:"watchdog_timeout"`
	SafeStopBehavior string        `mapstructure:"safe_stop_behavior"`
}

// RateLimiterConfig holds rate limiter configuration.
type RateLimiterConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig holds Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// DatabaseConfig points at the shared relational store. An empty URL disables it.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MinConnections int           `mapstructure:"min_connections"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig points at the shared Redis instance. An empty URL disables it.
type RedisConfig struct {
	URL         string        `mapstructure:"url"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Load reads configuration from a .env file, the config file and environment variables.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/nkz-robotics/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shared-service URLs keep the names the platform already exports.
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis.url", EnvPrefix+"_REDIS_URL", "REDIS_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.request_timeout", "10s")

	// Generator defaults
	v.SetDefault("generator.router_endpoints", []string{robotconfig.DefaultRouterEndpoint})
	v.SetDefault("generator.watchdog_timeout", robotconfig.DefaultWatchdogTimeout.String())
	v.SetDefault("generator.safe_stop_behavior", robotconfig.DefaultSafeStopBehavior)

	// Rate limiter defaults
	v.SetDefault("rate_limiter.enabled", true)
	v.SetDefault("rate_limiter.requests_per_second", 200.0)
	v.SetDefault("rate_limiter.burst_size", 50)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// Shared services are opt-in
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.min_connections", 0)
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.dial_timeout", "5s")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server request timeout must be positive")
	}

	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("invalid generator config: %w", err)
	}

	if c.RateLimiter.Enabled {
		if c.RateLimiter.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limiter requests per second must be positive")
		}
		if c.RateLimiter.BurstSize <= 0 {
			return fmt.Errorf("rate limiter burst size must be positive")
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
		}
		if c.Metrics.Port == c.Server.Port {
			return fmt.Errorf("metrics port %d collides with server port", c.Metrics.Port)
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("metrics path must start with '/': %q", c.Metrics.Path)
		}
	}

	if c.Database.URL != "" {
		if c.Database.MaxConnections <= 0 {
			return fmt.Errorf("database max connections must be positive")
		}
		if c.Database.MinConnections < 0 || c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("database min connections must be in [0, %d]", c.Database.MaxConnections)
		}
	}

	return nil
}

// Policy maps the generator section onto a robotconfig.Policy.
func (c *Config) Policy() robotconfig.Policy {
	return robotconfig.Policy{
		RouterEndpoints:  c.Generator.RouterEndpoints,
		WatchdogTimeout:  c.Generator.WatchdogTimeout,
		SafeStopBehavior: c.Generator.SafeStopBehavior,
	}
}
