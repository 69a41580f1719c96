package extractor

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ramkansal/linkscope/internal/metrics"
	"github.com/ramkansal/linkscope/pkg/plugin"
)

// domExtractor carries what every browser-driven extractor shares.
type domExtractor struct {
	opts   Options
	logger *zap.Logger
}

// load opens a page, navigates to rawURL and returns the rendered DOM.
// waitSelector is optional; not finding it within the selector timeout
// is not an error.
func (d domExtractor) load(ctx context.Context, session plugin.Session, platform plugin.Platform, rawURL, waitSelector string) (*goquery.Document, error) {
	fail := func(stage Stage, err error) error {
		return &ExtractError{Platform: platform, Stage: stage, Err: err}
	}

	if session == nil {
		return nil, fail(StageNavigate, ErrNoSession)
	}

	page, err := session.NewPage(ctx)
	if err != nil {
		return nil, fail(StageNavigate, err)
	}
	defer page.Close()

	if d.opts.UserAgent != "" {
		if err := page.SetUserAgent(d.opts.UserAgent); err != nil {
			d.logger.Debug("set user agent failed", zap.Error(err))
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, d.opts.NavigationTimeout)
	defer cancel()
	if err := page.Navigate(navCtx, rawURL); err != nil {
		return nil, fail(StageNavigate, err)
	}

	if waitSelector != "" && d.opts.SelectorTimeout > 0 {
		waitCtx, cancelWait := context.WithTimeout(ctx, d.opts.SelectorTimeout)
		err := page.WaitForSelector(waitCtx, waitSelector)
		cancelWait()
		if err != nil {
			// Partial DOM is still worth reading.
			d.logger.Debug("content selector not found",
				zap.String("platform", string(platform)),
				zap.String("selector", waitSelector),
				zap.Error(err))
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fail(StageEvaluate, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fail(StageEvaluate, err)
	}
	return doc, nil
}

// degrade logs cause and returns the fallback preview, or nil when the
// fallback cannot build one either.
func (d domExtractor) degrade(platform plugin.Platform, rawURL string, cause error, fallback func() (*plugin.Preview, error)) *plugin.Preview {
	metrics.FallbackTotal.WithLabelValues(string(platform)).Inc()
	d.logger.Debug("dom extraction failed, using url fallback",
		zap.String("platform", string(platform)),
		zap.String("url", rawURL),
		zap.Error(cause))

	p, err := fallback()
	if err != nil {
		d.logger.Warn("url fallback failed",
			zap.String("platform", string(platform)),
			zap.String("url", rawURL),
			zap.Error(err))
		return nil
	}
	return p
}

// safely runs fn, turning a panic inside the page or the DOM walk into
// an evaluate error.
func safely(platform plugin.Platform, fn func() (*plugin.Preview, error)) (p *plugin.Preview, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = &ExtractError{Platform: platform, Stage: StageEvaluate, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return fn()
}

// ---------- DOM helpers ----------

// metaContent returns the first non-empty content of a meta tag whose
// property, name or itemprop equals one of keys, in key order.
func metaContent(doc *goquery.Document, keys ...string) string {
	for _, key := range keys {
		for _, attr := range []string{"property", "name", "itemprop"} {
			v, _ := doc.Find(`meta[` + attr + `="` + key + `"]`).First().Attr("content")
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// firstText returns the cleaned text of the first selector that matches
// a non-empty element.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if t := cleanText(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// firstAttr is firstText for an attribute.
func firstAttr(doc *goquery.Document, attr string, selectors ...string) string {
	for _, sel := range selectors {
		v, _ := doc.Find(sel).First().Attr(attr)
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func pageTitle(doc *goquery.Document) string {
	return cleanText(doc.Find("title").First().Text())
}

// cleanText trims and collapses runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolve makes ref absolute against base. Unparseable refs are dropped.
func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		if u.IsAbs() {
			return u.String()
		}
		return ""
	}
	return base.ResolveReference(u).String()
}

// handle prefixes name with "@" unless empty.
func handle(name string) string {
	if name == "" {
		return ""
	}
	return "@" + strings.TrimPrefix(name, "@")
}

var contentNouns = map[string]string{
	plugin.ContentPost:    "Post",
	plugin.ContentReel:    "Reel",
	plugin.ContentVideo:   "Video",
	plugin.ContentProfile: "Profile",
	plugin.ContentPage:    "Page",
}

// genericTitle is the title used when nothing better is known, e.g.
// "Post on Instagram".
func genericTitle(contentType, site string) string {
	noun, ok := contentNouns[contentType]
	if !ok {
		noun = "Post"
	}
	return noun + " on " + site
}

// submatch returns group i of re's first match in s, or "".
func submatch(re *regexp.Regexp, s string, i int) string {
	m := re.FindStringSubmatch(s)
	if i >= len(m) {
		return ""
	}
	return m[i]
}
