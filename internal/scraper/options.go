package scraper

import (
	"time"

	"github.com/ramkansal/linkscope/internal/config"
)

// Options controls the orchestration around extractors.
type Options struct {
	// PreviewTTL is how long a successful preview stays cached.
	PreviewTTL time.Duration

	// Dedupe shares one in-flight scrape between concurrent callers
	// asking for the same URL.
	Dedupe bool

	// MaxConcurrent bounds simultaneously open sessions. 0 = unbounded.
	MaxConcurrent int

	// Parallelism is the worker count of ScrapeAll.
	Parallelism int
}

// DefaultOptions returns a one hour preview TTL with no dedupe and no
// session cap.
func DefaultOptions() Options {
	return Options{
		PreviewTTL:  time.Hour,
		Parallelism: 4,
	}
}

// OptionsFromConfig maps the loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PreviewTTL:    cfg.Cache.PreviewTTL,
		Dedupe:        cfg.Scraper.Dedupe,
		MaxConcurrent: cfg.Scraper.MaxConcurrent,
		Parallelism:   cfg.Scraper.Parallelism,
	}
}
