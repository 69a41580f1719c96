package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

const twitterSite = "X (Twitter)"

var (
	tweetURLRe    = regexp.MustCompile(`(?i)(?:twitter|x)\.com/([A-Za-z0-9_]{1,15})/status(?:es)?/(\d+)`)
	twitterUserRe = regexp.MustCompile(`(?i)(?:twitter|x)\.com/([A-Za-z0-9_]{1,15})/?(?:[?#]|$)`)
)

// twitterReserved are top-level paths that are not usernames.
var twitterReserved = map[string]bool{
	"home": true, "i": true, "search": true, "explore": true, "intent": true,
	"share": true, "hashtag": true, "settings": true, "notifications": true,
	"messages": true, "login": true, "signup": true, "tos": true, "privacy": true,
}

type tweetRef struct {
	username string
	statusID string
}

func parseTwitterURL(rawURL string) tweetRef {
	if m := tweetURLRe.FindStringSubmatch(rawURL); m != nil {
		return tweetRef{username: m[1], statusID: m[2]}
	}
	user := submatch(twitterUserRe, rawURL, 1)
	if twitterReserved[strings.ToLower(user)] {
		user = ""
	}
	return tweetRef{username: user}
}

// TwitterExtractor reads tweets and profiles from twitter.com / x.com.
type TwitterExtractor struct {
	domExtractor
}

func NewTwitterExtractor(base domExtractor) *TwitterExtractor {
	return &TwitterExtractor{domExtractor: base}
}

func (e *TwitterExtractor) Platform() plugin.Platform { return plugin.PlatformTwitter }

func (e *TwitterExtractor) Extract(ctx context.Context, session plugin.Session, rawURL string) *plugin.Preview {
	ref := parseTwitterURL(rawURL)
	p, err := safely(plugin.PlatformTwitter, func() (*plugin.Preview, error) {
		return e.extract(ctx, session, rawURL, ref)
	})
	if err == nil {
		return p
	}
	return e.degrade(plugin.PlatformTwitter, rawURL, err, func() (*plugin.Preview, error) {
		p := twitterBase(rawURL, ref)
		p.Title = genericTitle(p.ContentType, "Twitter")
		return p, nil
	})
}

// twitterBase holds the fields derived from the URL alone.
func twitterBase(rawURL string, ref tweetRef) *plugin.Preview {
	p := &plugin.Preview{
		URL:          rawURL,
		Platform:     plugin.PlatformTwitter,
		SiteName:     twitterSite,
		Username:     ref.username,
		PostID:       ref.statusID,
		AuthorHandle: handle(ref.username),
	}
	switch {
	case ref.statusID != "":
		p.ContentType = plugin.ContentPost
	case ref.username != "":
		p.ContentType = plugin.ContentProfile
	default:
		p.ContentType = plugin.ContentPage
	}
	return p
}

func (e *TwitterExtractor) extract(ctx context.Context, session plugin.Session, rawURL string, ref tweetRef) (*plugin.Preview, error) {
	doc, err := e.load(ctx, session, plugin.PlatformTwitter, rawURL, `article[data-testid="tweet"]`)
	if err != nil {
		return nil, err
	}

	p := twitterBase(rawURL, ref)

	tweet := `article[data-testid="tweet"]`
	p.Title = firstNonEmpty(metaContent(doc, "og:title", "twitter:title"), pageTitle(doc))
	p.Description = firstNonEmpty(
		firstText(doc, tweet+` [data-testid="tweetText"]`),
		metaContent(doc, "og:description", "twitter:description"),
	)
	p.Image = firstNonEmpty(
		metaContent(doc, "og:image", "twitter:image"),
		firstAttr(doc, "src", tweet+` [data-testid="tweetPhoto"] img`),
	)

	// User-Name holds "Display Name" then "@handle".
	p.Author = firstText(doc, tweet+` [data-testid="User-Name"] a span`, `[data-testid="UserName"] span`)
	if h := firstText(doc, tweet+` [data-testid="User-Name"] a[tabindex="-1"] span`); strings.HasPrefix(h, "@") && p.AuthorHandle == "" {
		p.AuthorHandle = h
	}
	p.AuthorImage = firstAttr(doc, "src", tweet+` [data-testid="Tweet-User-Avatar"] img`, `[data-testid^="UserAvatar-Container"] img`)

	p.ReplyCount = firstText(doc, tweet+` [data-testid="reply"] [data-testid="app-text-transition-container"]`)
	p.RetweetCount = firstText(doc, tweet+` [data-testid="retweet"] [data-testid="app-text-transition-container"]`)
	p.LikeCount = firstText(doc, tweet+` [data-testid="like"] [data-testid="app-text-transition-container"]`)
	p.ViewCount = firstText(doc, tweet+` a[href$="/analytics"] [data-testid="app-text-transition-container"]`)

	if p.Title == "" {
		p.Title = genericTitle(p.ContentType, "Twitter")
	}
	return p, nil
}
