package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

func Validate(cfg *Config) error {
	var errs []error

	// Log validation
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn, or error"))
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json"))
	}

	// Browser validation
	switch cfg.Browser.Mode {
	case "browser", "http", "auto":
	default:
		errs = append(errs, fmt.Errorf("browser.mode must be browser, http, or auto"))
	}
	if cfg.Browser.NavigationTimeout < time.Second {
		errs = append(errs, fmt.Errorf("browser.navigation_timeout must be at least 1s"))
	}
	if cfg.Browser.SelectorTimeout < 0 {
		errs = append(errs, fmt.Errorf("browser.selector_timeout must not be negative"))
	}
	if cfg.Browser.SettleTimeout < 0 {
		errs = append(errs, fmt.Errorf("browser.settle_timeout must not be negative"))
	}
	if cfg.Browser.Proxy != "" {
		u, err := url.Parse(cfg.Browser.Proxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("browser.proxy %q is not a valid URL with scheme", cfg.Browser.Proxy))
		}
	}

	// Cache validation
	if cfg.Cache.DefaultTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.default_ttl must be positive"))
	}
	if cfg.Cache.PreviewTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.preview_ttl must be positive"))
	}
	if cfg.Cache.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("cache.max_entries must not be negative"))
	}

	// Scraper validation
	if cfg.Scraper.MaxConcurrent < 0 {
		errs = append(errs, fmt.Errorf("scraper.max_concurrent must not be negative"))
	}
	if cfg.Scraper.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("scraper.parallelism must be at least 1"))
	}

	// Server validation
	if cfg.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr is required"))
	}

	return errors.Join(errs...)
}
