// Package config defines the process configuration shared by the CLI and the
// API server, and the layered loader that builds it.
package config

import (
	"strings"
	"time"

	"github.com/pfrederiksen/swim-archive/internal/archive"
	"github.com/pfrederiksen/swim-archive/internal/fetcher"
	"github.com/pfrederiksen/swim-archive/internal/harvest"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// BaseURL is the archive site root.
	BaseURL string `koanf:"base_url"`

	// UserAgent is sent with every page request.
	UserAgent string `koanf:"user_agent"`

	// FetchTimeout bounds a single page fetch during search and scrape.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// MaxPages caps how many candidate result pages one search visits.
	MaxPages int `koanf:"max_pages"`

	// HarvestTimeout, HarvestRetries and RetryBackoff control year page fetches.
	HarvestTimeout time.Duration `koanf:"harvest_timeout"`
	HarvestRetries int           `koanf:"harvest_retries"`
	RetryBackoff   time.Duration `koanf:"retry_backoff"`

	// HarvestDelay is the minimum spacing between year page requests.
	HarvestDelay time.Duration `koanf:"harvest_delay"`

	// DataDir holds the CSV export and harvest snapshot.
	DataDir string `koanf:"data_dir"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// CORSOrigins is a comma separated list of allowed origins.
	CORSOrigins string `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow are allowed from one client IP.
	// Zero disables rate limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		BaseURL:           archive.DefaultBaseURL,
		UserAgent:         fetcher.UserAgent,
		FetchTimeout:      fetcher.DefaultTimeout,
		MaxPages:          archive.DefaultMaxPages,
		HarvestTimeout:    15 * time.Second,
		HarvestRetries:    fetcher.DefaultRetries,
		RetryBackoff:      fetcher.DefaultBackoff,
		HarvestDelay:      harvest.DefaultDelay,
		DataDir:           "~/.local/share/swim-archive",
		Addr:              ":5000",
		CORSOrigins:       "*",
		RateLimitRequests: 60,
		RateLimitWindow:   time.Minute,
	}
}

// AllowedOrigins splits CORSOrigins into its entries.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0)
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SearchFetcherOptions configures the fetcher used by search and scrape.
func (c *Config) SearchFetcherOptions() fetcher.Options {
	return fetcher.Options{UserAgent: c.UserAgent, Timeout: c.FetchTimeout, Retries: 1}
}

// HarvestFetcherOptions configures the retrying fetcher used by the harvester.
func (c *Config) HarvestFetcherOptions() fetcher.Options {
	return fetcher.Options{
		UserAgent: c.UserAgent,
		Timeout:   c.HarvestTimeout,
		Retries:   c.HarvestRetries,
		Backoff:   c.RetryBackoff,
	}
}
