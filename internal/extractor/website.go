package extractor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

// WebsiteExtractor reads Open Graph, Twitter card and plain HTML metadata
// from any page. It handles every URL no other extractor claims.
type WebsiteExtractor struct {
	domExtractor
}

func NewWebsiteExtractor(base domExtractor) *WebsiteExtractor {
	return &WebsiteExtractor{domExtractor: base}
}

func (e *WebsiteExtractor) Platform() plugin.Platform { return plugin.PlatformWebsite }

func (e *WebsiteExtractor) Extract(ctx context.Context, session plugin.Session, rawURL string) *plugin.Preview {
	p, err := safely(plugin.PlatformWebsite, func() (*plugin.Preview, error) {
		return e.extract(ctx, session, rawURL)
	})
	if err == nil {
		return p
	}
	return e.degrade(plugin.PlatformWebsite, rawURL, err, func() (*plugin.Preview, error) {
		return websiteFallback(rawURL)
	})
}

func (e *WebsiteExtractor) extract(ctx context.Context, session plugin.Session, rawURL string) (*plugin.Preview, error) {
	doc, err := e.load(ctx, session, plugin.PlatformWebsite, rawURL, "")
	if err != nil {
		return nil, err
	}

	base, _ := parseSiteURL(rawURL)
	domain := siteDomain(base)

	p := &plugin.Preview{
		URL:         rawURL,
		Platform:    plugin.PlatformWebsite,
		Domain:      domain,
		ContentType: plugin.ContentPage,
	}

	title := pageTitle(doc)
	p.Title = firstNonEmpty(metaContent(doc, "og:title", "twitter:title"), title, domain)
	p.Description = metaContent(doc, "og:description", "twitter:description", "description")
	p.Image = resolve(base, metaContent(doc, "og:image", "og:image:url", "og:image:secure_url", "twitter:image", "twitter:image:src"))
	p.Author = metaContent(doc, "author", "article:author")
	p.SiteName = firstNonEmpty(
		metaContent(doc, "og:site_name", "application-name"),
		siteNameFromTitle(title),
		domain,
	)

	p.Favicon = resolve(base, firstAttr(doc, "href",
		`link[rel="icon"]`,
		`link[rel="shortcut icon"]`,
		`link[rel~="icon"]`,
		`link[rel="apple-touch-icon"]`,
	))
	if p.Favicon == "" {
		p.Favicon = defaultFavicon(base)
	}
	return p, nil
}

// siteNameFromTitle keeps the part of a title before the first " - " or
// " | " separator, so "Home | Acme" yields "Home".
func siteNameFromTitle(title string) string {
	cut := len(title)
	for _, sep := range []string{" - ", " | "} {
		if i := strings.Index(title, sep); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(title[:cut])
}

// websiteFallback builds the preview from the URL alone.
func websiteFallback(rawURL string) (*plugin.Preview, error) {
	u, err := parseSiteURL(rawURL)
	if err != nil {
		return nil, err
	}
	domain := siteDomain(u)
	return &plugin.Preview{
		URL:         rawURL,
		Platform:    plugin.PlatformWebsite,
		Title:       domain,
		SiteName:    domain,
		Domain:      domain,
		Favicon:     defaultFavicon(u),
		ContentType: plugin.ContentPage,
	}, nil
}

// parseSiteURL parses rawURL, assuming https when the scheme is missing.
func parseSiteURL(rawURL string) (*url.URL, error) {
	raw := strings.TrimSpace(rawURL)
	u, err := url.Parse(raw)
	if err == nil && u.Host == "" && !strings.Contains(raw, "://") {
		u, err = url.Parse("https://" + raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidURL, rawURL)
	}
	return u, nil
}

func siteDomain(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func defaultFavicon(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico"
}
