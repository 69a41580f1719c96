package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

var (
	youtubeVideoRe   = regexp.MustCompile(`(?i)(?:youtube\.com/(?:watch\?(?:[^#]*&)?v=|embed/|shorts/|live/|v/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
	youtubeChannelRe = regexp.MustCompile(`(?i)youtube\.com/(?:@|c/|user/)([A-Za-z0-9_.-]+)`)
)

type youtubeRef struct {
	videoID  string
	username string
}

func parseYouTubeURL(rawURL string) youtubeRef {
	return youtubeRef{
		videoID:  submatch(youtubeVideoRe, rawURL, 1),
		username: submatch(youtubeChannelRe, rawURL, 1),
	}
}

// youtubeThumbnail is the stable thumbnail location for a video id.
func youtubeThumbnail(id string) string {
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}

// YouTubeExtractor reads videos, shorts and channels.
type YouTubeExtractor struct {
	domExtractor
}

func NewYouTubeExtractor(base domExtractor) *YouTubeExtractor {
	return &YouTubeExtractor{domExtractor: base}
}

func (e *YouTubeExtractor) Platform() plugin.Platform { return plugin.PlatformYouTube }

func (e *YouTubeExtractor) Extract(ctx context.Context, session plugin.Session, rawURL string) *plugin.Preview {
	ref := parseYouTubeURL(rawURL)
	p, err := safely(plugin.PlatformYouTube, func() (*plugin.Preview, error) {
		return e.extract(ctx, session, rawURL, ref)
	})
	if err == nil {
		return p
	}
	return e.degrade(plugin.PlatformYouTube, rawURL, err, func() (*plugin.Preview, error) {
		p := youtubeBase(rawURL, ref)
		p.Title = genericTitle(p.ContentType, "YouTube")
		return p, nil
	})
}

func youtubeBase(rawURL string, ref youtubeRef) *plugin.Preview {
	p := &plugin.Preview{
		URL:          rawURL,
		Platform:     plugin.PlatformYouTube,
		SiteName:     "YouTube",
		VideoID:      ref.videoID,
		Username:     ref.username,
		AuthorHandle: handle(ref.username),
		Image:        youtubeThumbnail(ref.videoID),
	}
	switch {
	case ref.videoID != "":
		p.ContentType = plugin.ContentVideo
	case ref.username != "":
		p.ContentType = plugin.ContentProfile
	default:
		p.ContentType = plugin.ContentPage
	}
	return p
}

func (e *YouTubeExtractor) extract(ctx context.Context, session plugin.Session, rawURL string, ref youtubeRef) (*plugin.Preview, error) {
	doc, err := e.load(ctx, session, plugin.PlatformYouTube, rawURL, `h1.ytd-watch-metadata, #title h1`)
	if err != nil {
		return nil, err
	}

	p := youtubeBase(rawURL, ref)

	p.Title = firstNonEmpty(
		metaContent(doc, "og:title", "twitter:title"),
		firstText(doc, `h1.ytd-watch-metadata`, `#title h1`),
		strings.TrimSuffix(pageTitle(doc), " - YouTube"),
	)
	p.Description = metaContent(doc, "og:description", "description")
	if img := metaContent(doc, "og:image", "twitter:image"); p.Image == "" {
		p.Image = img
	}

	p.Author = firstNonEmpty(
		firstAttr(doc, "content", `span[itemprop="author"] link[itemprop="name"]`),
		firstText(doc, `#owner #channel-name a`, `ytd-channel-name a`),
	)
	p.AuthorImage = firstAttr(doc, "src", `#owner #avatar img`)
	p.ViewCount = firstNonEmpty(
		metaContent(doc, "interactionCount", "userInteractionCount"),
		firstText(doc, `#info-container #info span`),
	)
	p.LikeCount = firstText(doc, `like-button-view-model button .yt-spec-button-shape-next__button-text-content`, `#segmented-like-button button span`)

	if p.Title == "" {
		p.Title = genericTitle(p.ContentType, "YouTube")
	}
	return p, nil
}
