package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

// ErrSelectorNotFound is returned by static pages, which cannot wait for
// content that scripts would have rendered.
var ErrSelectorNotFound = errors.New("selector not found")

// ErrNotNavigated is returned when a page is read before Navigate.
var ErrNotNavigated = errors.New("page has not been navigated")

// HTTPLauncher serves sessions backed by plain HTTP fetches through Colly.
// Pages contain the server-rendered HTML only; no JavaScript runs.
type HTTPLauncher struct {
	collector *colly.Collector
}

// HTTPLauncherConfig holds configuration for the HTTP launcher.
type HTTPLauncherConfig struct {
	Proxy           string
	MaxResponseSize int
}

// NewHTTPLauncher creates a new Colly-based launcher.
func NewHTTPLauncher(cfg HTTPLauncherConfig) (*HTTPLauncher, error) {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)

	if cfg.Proxy != "" {
		if err := c.SetProxy(cfg.Proxy); err != nil {
			return nil, fmt.Errorf("setting proxy: %w", err)
		}
	}

	c.MaxBodySize = cfg.MaxResponseSize
	if c.MaxBodySize == 0 {
		c.MaxBodySize = 4 << 20 // 4MB
	}

	return &HTTPLauncher{collector: c}, nil
}

func (l *HTTPLauncher) Name() string { return "http" }

func (l *HTTPLauncher) Launch(ctx context.Context) (plugin.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &httpSession{collector: l.collector}, nil
}

type httpSession struct {
	collector *colly.Collector
}

func (s *httpSession) NewPage(ctx context.Context) (plugin.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Clone the collector for this page so we get clean callbacks.
	return &httpPage{collector: s.collector.Clone()}, nil
}

func (s *httpSession) Close() error { return nil }

type httpPage struct {
	collector *colly.Collector
	html      string
	doc       *goquery.Document
	navigated bool
}

func (p *httpPage) SetUserAgent(ua string) error {
	p.collector.UserAgent = ua
	return nil
}

func (p *httpPage) Navigate(ctx context.Context, targetURL string) error {
	c := p.collector
	// The backend client is shared between clones; bound the request
	// through ctx, not SetRequestTimeout.
	colly.StdlibContext(ctx)(c)

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		p.html = string(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(targetURL); err != nil {
		return err
	}
	c.Wait()

	if fetchErr != nil {
		return fetchErr
	}
	p.navigated = true
	p.doc = nil
	return nil
}

func (p *httpPage) WaitForSelector(ctx context.Context, selector string) error {
	if !p.navigated {
		return ErrNotNavigated
	}
	if p.doc == nil {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.html))
		if err != nil {
			return err
		}
		p.doc = doc
	}
	if p.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %s", ErrSelectorNotFound, selector)
	}
	return nil
}

func (p *httpPage) HTML() (string, error) {
	if !p.navigated {
		return "", ErrNotNavigated
	}
	return p.html, nil
}

func (p *httpPage) Close() error { return nil }
