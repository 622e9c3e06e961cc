package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the engagement service.
// Environment variables are parsed from the ENGAGE_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage: "postgres" or "sqlite"
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/engage.db"`

	// Auth
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret"`

	// Feed cache
	FeedCacheTTL time.Duration `envconfig:"FEED_CACHE_TTL" default:"600s"`

	// Content providers
	TwitterBaseURL     string        `envconfig:"TWITTER_BASE_URL" default:"https://api.twitter.com"`
	TwitterBearerToken string        `envconfig:"TWITTER_BEARER_TOKEN" default:""`
	TwitterQuery       string        `envconfig:"TWITTER_QUERY" default:"web development"`
	RedditBaseURL      string        `envconfig:"REDDIT_BASE_URL" default:"https://www.reddit.com"`
	RedditSubreddit    string        `envconfig:"REDDIT_SUBREDDIT" default:"webdev"`
	ProviderTimeout    time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`
}

// ResolveDefaults validates the configuration and derives DBDriver when
// left at "auto" or empty: postgres when a DSN is present, sqlite otherwise.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("DB_DRIVER=postgres requires ENGAGE_POSTGRES_DSN")
	}
	if c.FeedCacheTTL <= 0 {
		return fmt.Errorf("FEED_CACHE_TTL must be positive")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: ENGAGE_HTTP_PORT, ENGAGE_POSTGRES_DSN.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ENGAGE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Dur("feed_cache_ttl", cfg.FeedCacheTTL).
		Bool("twitter_configured", cfg.TwitterBearerToken != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:     EnvTesting,
		HTTPPort:        8080,
		DBDriver:        "sqlite",
		SQLitePath:      "",
		JWTSecret:       "test-secret",
		FeedCacheTTL:    600 * time.Second,
		RedditBaseURL:   "https://www.reddit.com",
		RedditSubreddit: "webdev",
		TwitterBaseURL:  "https://api.twitter.com",
		TwitterQuery:    "web development",
		ProviderTimeout: 10 * time.Second,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
