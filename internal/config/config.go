// Package config loads ghdeps configuration from the environment.
//
// A .env file in the working directory is honored when present, matching
// how the tool is usually run locally. Environment variable names follow
// the conventional GITHUB_TOKEN / ORGANIZATION / LANGUAGE trio plus
// tuning knobs for the client.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the scan command needs.
type Config struct {
	Token        string `envconfig:"GITHUB_TOKEN"`
	Organization string `envconfig:"ORGANIZATION"`
	Language     string `envconfig:"LANGUAGE"`

	PerPage           int           `envconfig:"PER_PAGE" default:"100"`
	Parallelism       int           `envconfig:"PARALLELISM" default:"1"`
	RequestsPerSecond float64       `envconfig:"REQUESTS_PER_SECOND" default:"5"`
	OutputDir         string        `envconfig:"OUTPUT_DIR" default:"."`
	CacheDir          string        `envconfig:"CACHE_DIR"`
	CacheTTL          time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	MetricsAddr       string        `envconfig:"METRICS_ADDR"`
}

// Load reads the .env file (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}

// Validate ensures the values a scan actually requires are present and sane.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("GITHUB_TOKEN must be set")
	}
	if c.Organization == "" {
		return fmt.Errorf("organization must be set (ORGANIZATION or --org)")
	}
	if c.Language == "" {
		return fmt.Errorf("language must be set (LANGUAGE or --language)")
	}
	if c.PerPage <= 0 || c.PerPage > 100 {
		return fmt.Errorf("per-page must be between 1 and 100")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative")
	}
	return nil
}
