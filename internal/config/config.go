// Package config loads the application configuration from YAML and
// environment overrides. Configuration is read once at startup; every
// section validates itself before any component is constructed.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sinn357/investment-app-sub000/internal/fetch"
)

// EnvStatsAPIKey overrides the statistics API key from the environment so
// the key never has to live in a checked-in YAML file.
const EnvStatsAPIKey = "ECONCYCLE_STATS_API_KEY"

// Config is the complete application configuration.
type Config struct {
	Catalog  string         `yaml:"catalog"` // indicator catalog path, empty uses the embedded default
	Fetch    FetchConfig    `yaml:"fetch"`
	Stats    StatsConfig    `yaml:"stats"`
	Cache    CacheConfig    `yaml:"cache"`
	Store    StoreConfig    `yaml:"store"`
	Crawl    CrawlConfig    `yaml:"crawl"`
	Briefing BriefingConfig `yaml:"briefing"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// FetchConfig holds the two scrape policies: the general one used for
// statistical and calendar pages, and the tighter one for price pages.
type FetchConfig struct {
	General PolicyConfig `yaml:"general"`
	Price   PolicyConfig `yaml:"price"`
}

// PolicyConfig represents one retry/backoff/rate policy.
type PolicyConfig struct {
	MaxRetries  int     `yaml:"max_retries"`   // total attempt ceiling
	BaseDelayMS int     `yaml:"base_delay_ms"` // exponential backoff base
	TimeoutMS   int     `yaml:"timeout_ms"`    // per-request timeout
	JitterMinMS int     `yaml:"jitter_min_ms"` // uniform jitter bounds
	JitterMaxMS int     `yaml:"jitter_max_ms"`
	RPS         float64 `yaml:"rps"` // per-host request rate
	Burst       int     `yaml:"burst"`
}

// StatsConfig configures the statistics API adapter.
type StatsConfig struct {
	APIKey string `yaml:"api_key"` // overridden by ECONCYCLE_STATS_API_KEY
}

// CacheConfig selects the briefing cache backend.
type CacheConfig struct {
	RedisAddr string `yaml:"redis_addr"` // empty falls back to in-process cache
}

// StoreConfig selects the release store backend.
type StoreConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"` // empty falls back to in-memory store
	TimeoutSecs int    `yaml:"timeout_secs"` // connect timeout
}

// CrawlConfig bounds a batch refresh run.
type CrawlConfig struct {
	Workers    int `yaml:"workers"`
	BudgetSecs int `yaml:"budget_secs"`
}

// BriefingConfig controls briefing generation and caching.
type BriefingConfig struct {
	TTLSecs int `yaml:"ttl_secs"` // cached briefing lifetime
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"` // empty disables the endpoint
}

// Default returns the configuration used when no file is given. The values
// mirror the embedded catalog's scrape expectations.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			General: policyFromFetch(fetch.DefaultConfig()),
			Price:   policyFromFetch(fetch.PriceHistoryConfig()),
		},
		Store:    StoreConfig{TimeoutSecs: 5},
		Crawl:    CrawlConfig{Workers: 4, BudgetSecs: 600},
		Briefing: BriefingConfig{TTLSecs: 6 * 3600},
		Metrics:  MetricsConfig{ListenAddr: ":9090"},
	}
}

func policyFromFetch(c fetch.Config) PolicyConfig {
	return PolicyConfig{
		MaxRetries:  c.MaxRetries,
		BaseDelayMS: int(c.BaseDelay / time.Millisecond),
		TimeoutMS:   int(c.RequestTimeout / time.Millisecond),
		JitterMinMS: int(c.JitterMin / time.Millisecond),
		JitterMaxMS: int(c.JitterMax / time.Millisecond),
		RPS:         c.RPS,
		Burst:       c.Burst,
	}
}

// Load reads configuration from path, applies environment overrides, and
// validates the result. An empty path yields the defaults with overrides
// applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if key := os.Getenv(EnvStatsAPIKey); key != "" {
		cfg.Stats.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration is valid and consistent.
func (c *Config) Validate() error {
	if err := c.Fetch.General.Validate(); err != nil {
		return fmt.Errorf("fetch general: %w", err)
	}
	if err := c.Fetch.Price.Validate(); err != nil {
		return fmt.Errorf("fetch price: %w", err)
	}
	if c.Store.TimeoutSecs <= 0 {
		return fmt.Errorf("store timeout_secs must be positive, got %d", c.Store.TimeoutSecs)
	}
	if c.Crawl.Workers <= 0 {
		return fmt.Errorf("crawl workers must be positive, got %d", c.Crawl.Workers)
	}
	if c.Crawl.BudgetSecs <= 0 {
		return fmt.Errorf("crawl budget_secs must be positive, got %d", c.Crawl.BudgetSecs)
	}
	if c.Briefing.TTLSecs <= 0 {
		return fmt.Errorf("briefing ttl_secs must be positive, got %d", c.Briefing.TTLSecs)
	}
	return nil
}

// Validate ensures one scrape policy is valid.
func (p *PolicyConfig) Validate() error {
	if p.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive, got %d", p.MaxRetries)
	}
	if p.BaseDelayMS <= 0 {
		return fmt.Errorf("base_delay_ms must be positive, got %d", p.BaseDelayMS)
	}
	if p.TimeoutMS <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", p.TimeoutMS)
	}
	if p.JitterMinMS < 0 {
		return fmt.Errorf("jitter_min_ms cannot be negative, got %d", p.JitterMinMS)
	}
	if p.JitterMaxMS <= p.JitterMinMS {
		return fmt.Errorf("jitter_max_ms (%d) must be > jitter_min_ms (%d)", p.JitterMaxMS, p.JitterMinMS)
	}
	if p.RPS <= 0 {
		return fmt.Errorf("rps must be positive, got %f", p.RPS)
	}
	if p.Burst <= 0 {
		return fmt.Errorf("burst must be positive, got %d", p.Burst)
	}
	return nil
}

// FetchConfig converts one YAML policy into the fetcher's config.
func (p *PolicyConfig) FetchConfig() fetch.Config {
	return fetch.Config{
		MaxRetries:     p.MaxRetries,
		BaseDelay:      time.Duration(p.BaseDelayMS) * time.Millisecond,
		RequestTimeout: time.Duration(p.TimeoutMS) * time.Millisecond,
		JitterMin:      time.Duration(p.JitterMinMS) * time.Millisecond,
		JitterMax:      time.Duration(p.JitterMaxMS) * time.Millisecond,
		RPS:            p.RPS,
		Burst:          p.Burst,
	}
}

// StoreTimeout returns the store connect timeout as a duration.
func (c *StoreConfig) StoreTimeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// CrawlBudget returns the batch budget as a duration.
func (c *CrawlConfig) CrawlBudget() time.Duration {
	return time.Duration(c.BudgetSecs) * time.Second
}

// BriefingTTL returns the cached briefing lifetime as a duration.
func (c *BriefingConfig) BriefingTTL() time.Duration {
	return time.Duration(c.TTLSecs) * time.Second
}
