// Package scraper orchestrates a preview request: cache lookup,
// classification, session lifetime and extractor dispatch.
package scraper

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/ramkansal/linkscope/internal/cache"
	"github.com/ramkansal/linkscope/internal/extractor"
	"github.com/ramkansal/linkscope/internal/metrics"
	"github.com/ramkansal/linkscope/internal/platform"
	"github.com/ramkansal/linkscope/pkg/plugin"
)

// Stats counts Scrape outcomes since the Scraper was created.
type Stats struct {
	Requests  int `json:"requests"`
	CacheHits int `json:"cacheHits"`
	Extracted int `json:"extracted"`
	Failed    int `json:"failed"`
}

// Scraper turns URLs into previews. It is safe for concurrent use.
type Scraper struct {
	launcher   plugin.Launcher
	cache      *cache.Cache[*plugin.Preview]
	extractors *extractor.Registry
	opts       Options
	logger     *zap.Logger

	sem   *semaphore.Weighted // nil when sessions are unbounded
	group singleflight.Group

	stats   Stats
	statsMu sync.Mutex
}

// New creates a Scraper. The cache is owned by the caller and may be
// shared with administrative code.
func New(launcher plugin.Launcher, c *cache.Cache[*plugin.Preview], extractors *extractor.Registry, opts Options, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PreviewTTL <= 0 {
		opts.PreviewTTL = DefaultOptions().PreviewTTL
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	s := &Scraper{
		launcher:   launcher,
		cache:      c,
		extractors: extractors,
		opts:       opts,
		logger:     logger,
	}
	if opts.MaxConcurrent > 0 {
		s.sem = semaphore.NewWeighted(int64(opts.MaxConcurrent))
	}
	return s
}

// Cache returns the preview cache.
func (s *Scraper) Cache() *cache.Cache[*plugin.Preview] { return s.cache }

// Scrape returns the preview for rawURL, or nil when nothing could be
// extracted. Failures never escape as errors or panics.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) *plugin.Preview {
	s.count(func(st *Stats) { st.Requests++ })

	if p, ok := s.cache.Get(rawURL); ok {
		metrics.ScrapeTotal.WithLabelValues(string(p.Platform), metrics.OutcomeCacheHit).Inc()
		s.count(func(st *Stats) { st.CacheHits++ })
		return p
	}

	if !s.opts.Dedupe {
		return s.scrape(ctx, rawURL)
	}
	v, _, _ := s.group.Do(rawURL, func() (interface{}, error) {
		// A caller that just finished may have filled the cache.
		if p, ok := s.cache.Get(rawURL); ok {
			return p, nil
		}
		return s.scrape(ctx, rawURL), nil
	})
	p, _ := v.(*plugin.Preview)
	return p
}

func (s *Scraper) scrape(ctx context.Context, rawURL string) (p *plugin.Preview) {
	tag := platform.Classify(rawURL)
	log := s.logger.With(zap.String("url", rawURL), zap.String("platform", string(tag)))

	start := time.Now()
	outcome := metrics.OutcomeFailed
	defer func() {
		if r := recover(); r != nil {
			log.Error("scrape panicked", zap.Any("panic", r), zap.Stack("stack"))
			p = nil
			outcome = metrics.OutcomeFailed
		}
		metrics.ScrapeTotal.WithLabelValues(string(tag), outcome).Inc()
		metrics.ScrapeDurationSeconds.WithLabelValues(string(tag)).Observe(time.Since(start).Seconds())
		if outcome == metrics.OutcomeSuccess {
			s.count(func(st *Stats) { st.Extracted++ })
		} else {
			s.count(func(st *Stats) { st.Failed++ })
		}
	}()

	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			log.Warn("gave up waiting for a session slot", zap.Error(err))
			return nil
		}
		defer s.sem.Release(1)
	}

	session, err := s.launcher.Launch(ctx)
	if err != nil {
		log.Warn("extraction failed: no browser session",
			zap.String("launcher", s.launcher.Name()),
			zap.Error(err))
		return nil
	}
	metrics.SessionsInflight.Inc()
	defer func() {
		metrics.SessionsInflight.Dec()
		if err := session.Close(); err != nil {
			log.Debug("session close failed", zap.Error(err))
		}
	}()

	p = s.extractors.For(tag).Extract(ctx, session, rawURL)
	if p == nil {
		log.Info("no preview data extracted")
		return nil
	}
	if p.Platform != tag {
		log.Debug("extractor reported a different platform", zap.String("reported", string(p.Platform)))
		p.Platform = tag
	}

	s.cache.Set(rawURL, p, s.opts.PreviewTTL)
	outcome = metrics.OutcomeSuccess
	log.Debug("preview extracted", zap.Duration("elapsed", time.Since(start)))
	return p
}

// ScrapeAll scrapes urls with Options.Parallelism workers. Results are in
// input order; a nil Preview marks a failed URL.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) []*plugin.Result {
	results := make([]*plugin.Result, len(urls))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.opts.Parallelism)

	for i, u := range urls {
		if ctx.Err() != nil {
			results[i] = &plugin.Result{URL: u}
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			defer func() { <-sem }()

			start := time.Now()
			p := s.Scrape(ctx, u)
			results[i] = &plugin.Result{
				URL:     u,
				Preview: p,
				Elapsed: time.Since(start).Round(time.Millisecond).String(),
			}
		}(i, u)
	}

	wg.Wait()
	return results
}

// Stats returns a copy of the counters.
func (s *Scraper) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

func (s *Scraper) count(fn func(*Stats)) {
	s.statsMu.Lock()
	fn(&s.stats)
	s.statsMu.Unlock()
}
