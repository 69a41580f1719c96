package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

var (
	tiktokPostRe    = regexp.MustCompile(`(?i)tiktok\.com/@([A-Za-z0-9_.]+)/(video|photo)/(\d+)`)
	tiktokProfileRe = regexp.MustCompile(`(?i)tiktok\.com/@([A-Za-z0-9_.]+)/?(?:[?#]|$)`)
	tiktokShortRe   = regexp.MustCompile(`(?i)(?:vm|vt)\.tiktok\.com/([A-Za-z0-9]+)`)
)

type tiktokRef struct {
	username    string
	videoID     string
	postID      string
	contentType string
}

func parseTikTokURL(rawURL string) tiktokRef {
	if m := tiktokPostRe.FindStringSubmatch(rawURL); m != nil {
		if strings.EqualFold(m[2], "photo") {
			return tiktokRef{username: m[1], postID: m[3], contentType: plugin.ContentPost}
		}
		return tiktokRef{username: m[1], videoID: m[3], contentType: plugin.ContentVideo}
	}
	if user := submatch(tiktokProfileRe, rawURL, 1); user != "" {
		return tiktokRef{username: user, contentType: plugin.ContentProfile}
	}
	// Share links redirect to a video; the id only appears after redirect.
	if tiktokShortRe.MatchString(rawURL) {
		return tiktokRef{contentType: plugin.ContentVideo}
	}
	return tiktokRef{contentType: plugin.ContentPage}
}

// TikTokExtractor reads videos, photo posts and profiles.
type TikTokExtractor struct {
	domExtractor
}

func NewTikTokExtractor(base domExtractor) *TikTokExtractor {
	return &TikTokExtractor{domExtractor: base}
}

func (e *TikTokExtractor) Platform() plugin.Platform { return plugin.PlatformTikTok }

func (e *TikTokExtractor) Extract(ctx context.Context, session plugin.Session, rawURL string) *plugin.Preview {
	ref := parseTikTokURL(rawURL)
	p, err := safely(plugin.PlatformTikTok, func() (*plugin.Preview, error) {
		return e.extract(ctx, session, rawURL, ref)
	})
	if err == nil {
		return p
	}
	return e.degrade(plugin.PlatformTikTok, rawURL, err, func() (*plugin.Preview, error) {
		p := tiktokBase(rawURL, ref)
		p.Title = genericTitle(p.ContentType, "TikTok")
		return p, nil
	})
}

func tiktokBase(rawURL string, ref tiktokRef) *plugin.Preview {
	return &plugin.Preview{
		URL:          rawURL,
		Platform:     plugin.PlatformTikTok,
		SiteName:     "TikTok",
		Username:     ref.username,
		VideoID:      ref.videoID,
		PostID:       ref.postID,
		AuthorHandle: handle(ref.username),
		ContentType:  ref.contentType,
	}
}

func (e *TikTokExtractor) extract(ctx context.Context, session plugin.Session, rawURL string, ref tiktokRef) (*plugin.Preview, error) {
	doc, err := e.load(ctx, session, plugin.PlatformTikTok, rawURL,
		`[data-e2e="browse-video-desc"], [data-e2e="user-title"], [data-e2e="video-desc"]`)
	if err != nil {
		return nil, err
	}

	p := tiktokBase(rawURL, ref)

	p.Title = firstNonEmpty(metaContent(doc, "og:title", "twitter:title"), pageTitle(doc))
	p.Description = firstNonEmpty(
		firstText(doc, `[data-e2e="browse-video-desc"]`, `[data-e2e="video-desc"]`, `[data-e2e="user-bio"]`),
		metaContent(doc, "og:description", "description"),
	)
	p.Image = metaContent(doc, "og:image", "twitter:image")

	p.Author = firstText(doc, `[data-e2e="browse-username"]`, `[data-e2e="video-author-uniqueid"]`, `[data-e2e="user-subtitle"]`)
	p.AuthorImage = firstAttr(doc, "src", `[data-e2e="browse-user-avatar"] img`, `[data-e2e="user-avatar"] img`)

	p.LikeCount = firstText(doc, `[data-e2e="like-count"]`, `[data-e2e="browse-like-count"]`)
	p.ReplyCount = firstText(doc, `[data-e2e="comment-count"]`, `[data-e2e="browse-comment-count"]`)
	p.ViewCount = firstText(doc, `[data-e2e="video-views"]`)

	if p.Title == "" {
		p.Title = genericTitle(p.ContentType, "TikTok")
	}
	return p, nil
}
