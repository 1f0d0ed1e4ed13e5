package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/storefrontlabs/productsearch/pkg/config"
)

// Config holds all configuration for the product search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"SEARCH_HTTP_PORT" envDefault:"8010"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Upstream product API
	UpstreamURL string `env:"UPSTREAM_URL" envDefault:"https://dummyjson.com"`

	// Catalog sync
	SyncPageSize   int           `env:"SYNC_PAGE_SIZE" envDefault:"20"`
	SyncPageDelay  time.Duration `env:"SYNC_PAGE_DELAY" envDefault:"0s"`
	SyncRetryDelay time.Duration `env:"SYNC_RETRY_DELAY" envDefault:"5s"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load product search config: %w", err)
	}
	cfg.UpstreamURL = strings.TrimSuffix(cfg.UpstreamURL, "/")
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !strings.HasPrefix(c.UpstreamURL, "http://") && !strings.HasPrefix(c.UpstreamURL, "https://") {
		return fmt.Errorf("invalid upstream URL: %q", c.UpstreamURL)
	}
	if c.SyncPageSize < 1 || c.SyncPageSize > 100 {
		return fmt.Errorf("invalid sync page size: %d", c.SyncPageSize)
	}
	return nil
}
