package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

var (
	instagramPostRe    = regexp.MustCompile(`(?i)instagram\.com/(?:([A-Za-z0-9_.]+)/)?(p|reels?|tv)/([A-Za-z0-9_-]+)`)
	instagramProfileRe = regexp.MustCompile(`(?i)instagram\.com/([A-Za-z0-9_.]+)/?(?:[?#]|$)`)

	instagramAuthorRe   = regexp.MustCompile(`^(.+?)\s*\(@([A-Za-z0-9_.]+)\)`)
	instagramOnRe       = regexp.MustCompile(`^(.+?) on Instagram`)
	instagramCountersRe = regexp.MustCompile(`(?i)^([\d.,]+[KMB]?) likes?, ([\d.,]+[KMB]?) comments?`)
)

var instagramReserved = map[string]bool{
	"explore": true, "accounts": true, "stories": true, "direct": true,
	"about": true, "legal": true, "developer": true,
	"p": true, "reel": true, "reels": true, "tv": true,
}

type instagramRef struct {
	username    string
	postID      string
	contentType string
}

func parseInstagramURL(rawURL string) instagramRef {
	if m := instagramPostRe.FindStringSubmatch(rawURL); m != nil {
		ref := instagramRef{postID: m[3], contentType: plugin.ContentPost}
		if !instagramReserved[strings.ToLower(m[1])] {
			ref.username = m[1]
		}
		switch strings.ToLower(m[2]) {
		case "reel", "reels":
			ref.contentType = plugin.ContentReel
		case "tv":
			ref.contentType = plugin.ContentVideo
		}
		return ref
	}
	if user := submatch(instagramProfileRe, rawURL, 1); user != "" && !instagramReserved[strings.ToLower(user)] {
		return instagramRef{username: user, contentType: plugin.ContentProfile}
	}
	return instagramRef{contentType: plugin.ContentPage}
}

// InstagramExtractor reads posts, reels and profiles.
type InstagramExtractor struct {
	domExtractor
}

func NewInstagramExtractor(base domExtractor) *InstagramExtractor {
	return &InstagramExtractor{domExtractor: base}
}

func (e *InstagramExtractor) Platform() plugin.Platform { return plugin.PlatformInstagram }

func (e *InstagramExtractor) Extract(ctx context.Context, session plugin.Session, rawURL string) *plugin.Preview {
	ref := parseInstagramURL(rawURL)
	p, err := safely(plugin.PlatformInstagram, func() (*plugin.Preview, error) {
		return e.extract(ctx, session, rawURL, ref)
	})
	if err == nil {
		return p
	}
	return e.degrade(plugin.PlatformInstagram, rawURL, err, func() (*plugin.Preview, error) {
		p := instagramBase(rawURL, ref)
		p.Title = genericTitle(p.ContentType, "Instagram")
		return p, nil
	})
}

func instagramBase(rawURL string, ref instagramRef) *plugin.Preview {
	return &plugin.Preview{
		URL:          rawURL,
		Platform:     plugin.PlatformInstagram,
		SiteName:     "Instagram",
		Username:     ref.username,
		PostID:       ref.postID,
		AuthorHandle: handle(ref.username),
		ContentType:  ref.contentType,
	}
}

func (e *InstagramExtractor) extract(ctx context.Context, session plugin.Session, rawURL string, ref instagramRef) (*plugin.Preview, error) {
	doc, err := e.load(ctx, session, plugin.PlatformInstagram, rawURL, `article, main[role="main"]`)
	if err != nil {
		return nil, err
	}

	p := instagramBase(rawURL, ref)

	p.Title = firstNonEmpty(metaContent(doc, "og:title", "twitter:title"), pageTitle(doc))
	p.Description = metaContent(doc, "og:description", "description")
	p.Image = metaContent(doc, "og:image", "twitter:image")
	p.AuthorImage = firstAttr(doc, "src", `header img`, `article header img`)

	// og:title reads "Name (@handle) • Instagram photos and videos" or
	// "Name on Instagram: ...".
	if m := instagramAuthorRe.FindStringSubmatch(p.Title); m != nil {
		p.Author = strings.TrimSpace(m[1])
		if p.AuthorHandle == "" {
			p.AuthorHandle = handle(m[2])
		}
	} else if m := instagramOnRe.FindStringSubmatch(p.Title); m != nil {
		p.Author = strings.TrimSpace(m[1])
	}

	if m := instagramCountersRe.FindStringSubmatch(p.Description); m != nil {
		p.LikeCount = m[1]
		p.ReplyCount = m[2]
	}

	if p.Title == "" {
		p.Title = genericTitle(p.ContentType, "Instagram")
	}
	return p, nil
}
