package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

type facebookRule struct {
	re          *regexp.Regexp
	contentType string
	video       bool
}

// facebookRules are tried in order; group 1 is the content id.
var facebookRules = []facebookRule{
	{re: regexp.MustCompile(`(?i)/reels?/(\d+)`), contentType: plugin.ContentReel, video: true},
	{re: regexp.MustCompile(`(?i)/videos/(?:[^/?#]+/)?(\d+)`), contentType: plugin.ContentVideo, video: true},
	{re: regexp.MustCompile(`(?i)/watch/?\?(?:[^#]*&)?v=(\d+)`), contentType: plugin.ContentVideo, video: true},
	{re: regexp.MustCompile(`(?i)/groups/[^/?#]+/(?:posts|permalink)/(\d+)`), contentType: plugin.ContentPost},
	{re: regexp.MustCompile(`(?i)/posts/([A-Za-z0-9]+)`), contentType: plugin.ContentPost},
	{re: regexp.MustCompile(`(?i)[?&]story_fbid=([A-Za-z0-9]+)`), contentType: plugin.ContentPost},
	{re: regexp.MustCompile(`(?i)/photo(?:\.php)?/?\?(?:[^#]*&)?fbid=(\d+)`), contentType: plugin.ContentPost},
}

var (
	facebookShareRe     = regexp.MustCompile(`(?i)/share/([prv])/([A-Za-z0-9]+)`)
	facebookUserRe      = regexp.MustCompile(`(?i)(?:facebook|fb)\.com/([A-Za-z0-9.]+)(?:[/?#]|$)`)
	facebookProfileIDRe = regexp.MustCompile(`(?i)profile\.php\?(?:[^#]*&)?id=(\d+)`)
	facebookBareUserRe  = regexp.MustCompile(`(?i)(?:facebook|fb)\.com/[A-Za-z0-9.]+/?(?:[?#]|$)`)
)

var facebookReserved = map[string]bool{
	"watch": true, "groups": true, "share": true, "photo": true, "photo.php": true,
	"story.php": true, "permalink.php": true, "reel": true, "reels": true,
	"events": true, "marketplace": true, "gaming": true, "pages": true,
	"login": true, "help": true, "profile.php": true, "hashtag": true,
}

type facebookRef struct {
	username    string
	postID      string
	videoID     string
	contentType string
}

func parseFacebookURL(rawURL string) facebookRef {
	var ref facebookRef

	if user := submatch(facebookUserRe, rawURL, 1); user != "" && !facebookReserved[strings.ToLower(user)] {
		ref.username = user
	} else if id := submatch(facebookProfileIDRe, rawURL, 1); id != "" {
		ref.username = id
	}

	for _, rule := range facebookRules {
		id := submatch(rule.re, rawURL, 1)
		if id == "" {
			continue
		}
		ref.contentType = rule.contentType
		if rule.video {
			ref.videoID = id
		} else {
			ref.postID = id
		}
		return ref
	}

	if m := facebookShareRe.FindStringSubmatch(rawURL); m != nil {
		switch strings.ToLower(m[1]) {
		case "r":
			ref.contentType, ref.videoID = plugin.ContentReel, m[2]
		case "v":
			ref.contentType, ref.videoID = plugin.ContentVideo, m[2]
		default:
			ref.contentType, ref.postID = plugin.ContentPost, m[2]
		}
		return ref
	}

	switch {
	case ref.username != "" && (facebookBareUserRe.MatchString(rawURL) || facebookProfileIDRe.MatchString(rawURL)):
		ref.contentType = plugin.ContentProfile
	default:
		ref.contentType = plugin.ContentPage
	}
	return ref
}

// FacebookExtractor reads posts, videos, reels and pages.
type FacebookExtractor struct {
	domExtractor
}

func NewFacebookExtractor(base domExtractor) *FacebookExtractor {
	return &FacebookExtractor{domExtractor: base}
}

func (e *FacebookExtractor) Platform() plugin.Platform { return plugin.PlatformFacebook }

func (e *FacebookExtractor) Extract(ctx context.Context, session plugin.Session, rawURL string) *plugin.Preview {
	ref := parseFacebookURL(rawURL)
	p, err := safely(plugin.PlatformFacebook, func() (*plugin.Preview, error) {
		return e.extract(ctx, session, rawURL, ref)
	})
	if err == nil {
		return p
	}
	return e.degrade(plugin.PlatformFacebook, rawURL, err, func() (*plugin.Preview, error) {
		p := facebookBase(rawURL, ref)
		p.Title = genericTitle(p.ContentType, "Facebook")
		return p, nil
	})
}

func facebookBase(rawURL string, ref facebookRef) *plugin.Preview {
	return &plugin.Preview{
		URL:         rawURL,
		Platform:    plugin.PlatformFacebook,
		SiteName:    "Facebook",
		Username:    ref.username,
		PostID:      ref.postID,
		VideoID:     ref.videoID,
		ContentType: ref.contentType,
	}
}

func (e *FacebookExtractor) extract(ctx context.Context, session plugin.Session, rawURL string, ref facebookRef) (*plugin.Preview, error) {
	doc, err := e.load(ctx, session, plugin.PlatformFacebook, rawURL, `[role="main"]`)
	if err != nil {
		return nil, err
	}

	p := facebookBase(rawURL, ref)

	p.Title = firstNonEmpty(metaContent(doc, "og:title", "twitter:title"), pageTitle(doc))
	p.Description = firstNonEmpty(
		metaContent(doc, "og:description", "description"),
		firstText(doc, `[role="main"] [data-ad-preview="message"]`),
	)
	p.Image = metaContent(doc, "og:image", "twitter:image")
	p.Author = firstText(doc, `[role="main"] h2 strong`, `[role="main"] h1`)
	p.AuthorImage = firstAttr(doc, "xlink:href", `[role="main"] svg image`)

	if p.Title == "" {
		p.Title = genericTitle(p.ContentType, "Facebook")
	}
	return p, nil
}
