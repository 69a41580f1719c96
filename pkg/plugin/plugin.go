// Package plugin defines the public types and interfaces for linkscope.
// External tools can import this package to write custom extractors or
// browser backends without forking the project.
package plugin

import "context"

// ---------- Core Data Types ----------

// Platform identifies which social/content platform a URL belongs to.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformFacebook  Platform = "facebook"
	PlatformAppleMaps Platform = "apple_maps"
	PlatformWebsite   Platform = "website"
)

// Platforms lists every known platform tag.
var Platforms = []Platform{
	PlatformTwitter,
	PlatformYouTube,
	PlatformInstagram,
	PlatformTikTok,
	PlatformFacebook,
	PlatformAppleMaps,
	PlatformWebsite,
}

// Content types reported in Preview.ContentType.
const (
	ContentPost    = "post"
	ContentReel    = "reel"
	ContentProfile = "profile"
	ContentPage    = "page"
	ContentVideo   = "video"
)

// Preview is the normalized metadata extracted for a URL.
// Only URL and Platform are always set.
type Preview struct {
	URL         string   `json:"url"`
	Platform    Platform `json:"platform"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	SiteName    string   `json:"siteName,omitempty"`

	// Author
	Author       string `json:"author,omitempty"`
	AuthorHandle string `json:"authorHandle,omitempty"`
	AuthorImage  string `json:"authorImage,omitempty"`

	// Identifiers, always taken from the URL
	VideoID  string `json:"videoId,omitempty"`
	PostID   string `json:"postId,omitempty"`
	Username string `json:"username,omitempty"`

	// Engagement counters, kept as display text ("1.2K")
	LikeCount    string `json:"likeCount,omitempty"`
	RetweetCount string `json:"retweetCount,omitempty"`
	ReplyCount   string `json:"replyCount,omitempty"`
	ViewCount    string `json:"viewCount,omitempty"`

	// Maps
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Address     string       `json:"address,omitempty"`

	ContentType string `json:"contentType,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	Domain      string `json:"domain,omitempty"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ---------- Browser Capability ----------

// Launcher starts browser sessions.
type Launcher interface {
	// Name returns a human-readable identifier for this backend.
	Name() string

	// Launch starts a new session. The caller must Close it.
	Launch(ctx context.Context) (Session, error)
}

// Session is a handle to a running browser instance.
type Session interface {
	// NewPage opens a blank page (tab) in the session.
	NewPage(ctx context.Context) (Page, error)

	// Close releases the session and every page it opened.
	Close() error
}

// Page is a single tab that can be navigated and inspected.
type Page interface {
	SetUserAgent(ua string) error

	// Navigate loads url and waits for the page to settle.
	// The context deadline bounds the whole operation.
	Navigate(ctx context.Context, url string) error

	// WaitForSelector blocks until selector matches or ctx expires.
	WaitForSelector(ctx context.Context, selector string) error

	// HTML returns a snapshot of the rendered DOM.
	HTML() (string, error)

	Close() error
}

// ---------- Plugin Interfaces ----------

// Extractor turns a URL (and optionally a live page) into a Preview.
type Extractor interface {
	// Platform returns the tag this extractor handles.
	Platform() Platform

	// Extract never returns an error: failures degrade to a URL-only
	// preview, and nil is returned only when even that is impossible.
	Extract(ctx context.Context, session Session, url string) *Preview
}

// OutputWriter defines how scraped previews are persisted.
type OutputWriter interface {
	// Name returns a human-readable identifier for this writer.
	Name() string

	// WriteResult records a single scrape result (called incrementally).
	WriteResult(result *Result) error

	// Finalize writes the collected output and closes resources.
	Finalize() error
}

// Result pairs an input URL with its preview (nil on failure).
type Result struct {
	URL     string   `json:"url"`
	Preview *Preview `json:"preview"`
	Elapsed string   `json:"elapsed"`
}
