package config

import "time"

type Config struct {
	Log     LogConfig     `koanf:"log"`
	Browser BrowserConfig `koanf:"browser"`
	Cache   CacheConfig   `koanf:"cache"`
	Scraper ScraperConfig `koanf:"scraper"`
	Server  ServerConfig  `koanf:"server"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// BrowserConfig controls how sessions are launched and pages are driven.
type BrowserConfig struct {
	// Mode is "browser" (headless Chromium), "http" (static fetch, no JS)
	// or "auto" (browser, falling back to http when Chromium won't start).
	Mode              string        `koanf:"mode"`
	Bin               string        `koanf:"bin"`
	Headless          bool          `koanf:"headless"`
	NoSandbox         bool          `koanf:"no_sandbox"`
	Proxy             string        `koanf:"proxy"`
	UserAgent         string        `koanf:"user_agent"`
	NavigationTimeout time.Duration `koanf:"navigation_timeout"`
	SelectorTimeout   time.Duration `koanf:"selector_timeout"`
	SettleTimeout     time.Duration `koanf:"settle_timeout"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `koanf:"default_ttl"`
	PreviewTTL time.Duration `koanf:"preview_ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

type ScraperConfig struct {
	// Dedupe collapses concurrent scrapes of the same URL into one.
	Dedupe bool `koanf:"dedupe"`
	// MaxConcurrent caps live browser sessions; 0 means no cap.
	MaxConcurrent int `koanf:"max_concurrent"`
	// Parallelism is the number of CLI arguments scraped at once.
	Parallelism int `koanf:"parallelism"`
}

type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	// AllowedOrigins enables CORS for browser clients when non-empty.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// DefaultUserAgent is a desktop Chrome user agent; several platforms serve
// stripped pages to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func Defaults() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Browser: BrowserConfig{
			Mode:              "browser",
			Headless:          true,
			NoSandbox:         true,
			UserAgent:         DefaultUserAgent,
			NavigationTimeout: 30 * time.Second,
			SelectorTimeout:   5 * time.Second,
			SettleTimeout:     2 * time.Second,
		},
		Cache: CacheConfig{
			DefaultTTL: 24 * time.Hour,
			PreviewTTL: time.Hour,
		},
		Scraper: ScraperConfig{
			Dedupe:        false,
			MaxConcurrent: 0,
			Parallelism:   4,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second, // must outlive a full scrape
		},
	}
}
