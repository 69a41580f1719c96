package extractor

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

func TestRegistry_For(t *testing.T) {
	r := NewRegistry(DefaultOptions(), zap.NewNop())

	for _, p := range plugin.Platforms {
		if got := r.For(p).Platform(); got != p {
			t.Errorf("For(%s).Platform() = %s", p, got)
		}
	}
	if got := r.For("myspace").Platform(); got != plugin.PlatformWebsite {
		t.Errorf("For(unknown) = %s, want website", got)
	}
	if n := len(r.Platforms()); n != len(plugin.Platforms) {
		t.Errorf("Platforms() has %d entries, want %d", n, len(plugin.Platforms))
	}
}

func TestTwitter_FallbackOnNavigationTimeout(t *testing.T) {
	s := &fakeSession{hang: true}
	e := NewTwitterExtractor(testBase())

	p := e.Extract(context.Background(), s, "https://twitter.com/jack/status/20")
	if p == nil {
		t.Fatal("Extract returned nil")
	}
	if p.URL != "https://twitter.com/jack/status/20" || p.Platform != plugin.PlatformTwitter {
		t.Errorf("url/platform = %q/%q", p.URL, p.Platform)
	}
	if p.Title == "" {
		t.Error("title is empty")
	}
	if p.PostID != "20" || p.Username != "jack" || p.AuthorHandle != "@jack" {
		t.Errorf("ids = %q/%q/%q", p.PostID, p.Username, p.AuthorHandle)
	}
	if p.Description != "" || p.Image != "" {
		t.Errorf("fallback carried DOM fields: %+v", p)
	}
	if _, _, closes := s.calls(); closes != 1 {
		t.Errorf("page closes = %d, want 1", closes)
	}
}

func TestTwitter_DOM(t *testing.T) {
	s := &fakeSession{html: `<html><head>
<meta property="og:title" content="jack on X">
<meta property="og:image" content="https://pbs.twimg.com/a.jpg">
</head><body>
<article data-testid="tweet">
  <div data-testid="User-Name"><a href="/jack"><span>jack</span></a><a href="/jack" tabindex="-1"><span>@jack</span></a></div>
  <div data-testid="tweetText">just setting up my twttr</div>
  <div data-testid="reply"><span data-testid="app-text-transition-container">12</span></div>
  <div data-testid="retweet"><span data-testid="app-text-transition-container">3.4K</span></div>
  <div data-testid="like"><span data-testid="app-text-transition-container">1.2K</span></div>
</article>
</body></html>`}
	e := NewTwitterExtractor(testBase())

	p := e.Extract(context.Background(), s, "https://x.com/jack/status/20?s=20")
	if p == nil {
		t.Fatal("Extract returned nil")
	}
	want := plugin.Preview{
		URL:          "https://x.com/jack/status/20?s=20",
		Platform:     plugin.PlatformTwitter,
		Title:        "jack on X",
		Description:  "just setting up my twttr",
		Image:        "https://pbs.twimg.com/a.jpg",
		SiteName:     twitterSite,
		Author:       "jack",
		AuthorHandle: "@jack",
		PostID:       "20",
		Username:     "jack",
		LikeCount:    "1.2K",
		RetweetCount: "3.4K",
		ReplyCount:   "12",
		ContentType:  plugin.ContentPost,
	}
	if *p != want {
		t.Errorf("preview =\n%+v\nwant\n%+v", *p, want)
	}
	if s.userAgent != "linkscope-test" {
		t.Errorf("user agent = %q", s.userAgent)
	}
}

func TestExtract_NilSessionFallsBack(t *testing.T) {
	r := NewRegistry(testBase().opts, zap.NewNop())
	for _, tt := range []struct {
		platform plugin.Platform
		url      string
	}{
		{plugin.PlatformYouTube, "https://youtu.be/dQw4w9WgXcQ"},
		{plugin.PlatformInstagram, "https://www.instagram.com/reel/Cabc123/"},
		{plugin.PlatformTikTok, "https://www.tiktok.com/@scout2015/video/6718335390845095173"},
		{plugin.PlatformFacebook, "https://www.facebook.com/zuck/posts/10102577175875681"},
		{plugin.PlatformWebsite, "https://example.com/blog"},
	} {
		t.Run(string(tt.platform), func(t *testing.T) {
			p := r.For(tt.platform).Extract(context.Background(), nil, tt.url)
			if p == nil {
				t.Fatal("Extract returned nil")
			}
			if p.Platform != tt.platform || p.URL != tt.url || p.Title == "" {
				t.Errorf("preview = %+v", p)
			}
		})
	}
}

func TestExtract_PanicInPageFallsBack(t *testing.T) {
	s := &fakeSession{panicHTML: true}
	e := NewInstagramExtractor(testBase())

	p := e.Extract(context.Background(), s, "https://www.instagram.com/p/ABC123/")
	if p == nil {
		t.Fatal("Extract returned nil")
	}
	if p.Title != "Post on Instagram" || p.PostID != "ABC123" {
		t.Errorf("preview = %+v", p)
	}
	if _, _, closes := s.calls(); closes != 1 {
		t.Errorf("page closes = %d, want 1", closes)
	}
}

func TestInstagram_DOM(t *testing.T) {
	s := &fakeSession{html: `<html><head>
<meta property="og:title" content="Jane Doe (@jane) • Instagram photos and videos">
<meta property="og:description" content="1,234 likes, 56 comments - jane on March 1, 2024">
<meta property="og:image" content="https://cdn.example/ig.jpg">
</head><body><main role="main"></main></body></html>`}
	e := NewInstagramExtractor(testBase())

	p := e.Extract(context.Background(), s, "https://www.instagram.com/p/ABC123/")
	if p.Author != "Jane Doe" || p.AuthorHandle != "@jane" {
		t.Errorf("author = %q/%q", p.Author, p.AuthorHandle)
	}
	if p.LikeCount != "1,234" || p.ReplyCount != "56" {
		t.Errorf("counters = %q/%q", p.LikeCount, p.ReplyCount)
	}
	if p.PostID != "ABC123" || p.Username != "" {
		t.Errorf("ids from url = %q/%q", p.PostID, p.Username)
	}
}

func TestYouTube_KeepsThumbnailOnFallback(t *testing.T) {
	s := &fakeSession{navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	e := NewYouTubeExtractor(testBase())

	p := e.Extract(context.Background(), s, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if p == nil {
		t.Fatal("Extract returned nil")
	}
	if p.VideoID != "dQw4w9WgXcQ" || p.Image != "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Errorf("video = %q image = %q", p.VideoID, p.Image)
	}
	if p.Title != "Video on YouTube" {
		t.Errorf("title = %q", p.Title)
	}
}

func TestAppleMaps_PureParse(t *testing.T) {
	s := &fakeSession{}
	e := NewAppleMapsExtractor()

	p := e.Extract(context.Background(), s, "https://maps.apple.com/?ll=48.8566,2.3522&q=Paris")
	if p == nil {
		t.Fatal("Extract returned nil")
	}
	if p.Coordinates == nil || p.Coordinates.Lat != 48.8566 || p.Coordinates.Lng != 2.3522 {
		t.Errorf("coordinates = %+v", p.Coordinates)
	}
	if p.Image == "" {
		t.Error("image is empty")
	}
	if p.Title != "Paris" || p.Platform != plugin.PlatformAppleMaps {
		t.Errorf("title/platform = %q/%q", p.Title, p.Platform)
	}
	if np, nav, _ := s.calls(); np != 0 || nav != 0 {
		t.Errorf("browser used: newPage=%d navigate=%d", np, nav)
	}
}

func TestAppleMaps_Params(t *testing.T) {
	tests := []struct {
		url       string
		title     string
		address   string
		hasCoords bool
	}{
		{"https://maps.apple.com/?t=Eiffel%20Tower&address=Champ%20de%20Mars&ll=48.8584,2.2945", "Eiffel Tower", "Champ de Mars", true},
		{"https://maps.apple.com/?q=Coffee", "Coffee", "Coffee", false},
		{"https://maps.apple.com/?ll=123,456", "Location on Apple Maps", "", false},
		{"https://maps.apple.com/?sll=37.33,-122.03", "Location on Apple Maps", "", true},
		{"https://maps.apple.com/", "Location on Apple Maps", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			p := NewAppleMapsExtractor().Extract(context.Background(), nil, tt.url)
			if p.Title != tt.title {
				t.Errorf("title = %q, want %q", p.Title, tt.title)
			}
			if p.Address != tt.address {
				t.Errorf("address = %q, want %q", p.Address, tt.address)
			}
			if (p.Coordinates != nil) != tt.hasCoords {
				t.Errorf("coordinates = %+v, want present=%v", p.Coordinates, tt.hasCoords)
			}
			if (p.Image != "") != tt.hasCoords {
				t.Errorf("image = %q, want present=%v", p.Image, tt.hasCoords)
			}
		})
	}
}

func TestWebsite_DOM(t *testing.T) {
	s := &fakeSession{html: `<html><head>
<title>Docs | Acme</title>
<meta name="twitter:title" content="Twitter Docs">
<meta property="og:title" content="Acme Docs">
<meta name="description" content="Plain description">
<meta property="og:image" content="/img/card.png">
<link rel="shortcut icon" href="/static/fav.png">
</head><body></body></html>`}
	e := NewWebsiteExtractor(testBase())

	p := e.Extract(context.Background(), s, "https://www.example.com/docs/start")
	want := plugin.Preview{
		URL:         "https://www.example.com/docs/start",
		Platform:    plugin.PlatformWebsite,
		Title:       "Acme Docs",
		Description: "Plain description",
		Image:       "https://www.example.com/img/card.png",
		SiteName:    "Docs",
		Favicon:     "https://www.example.com/static/fav.png",
		Domain:      "example.com",
		ContentType: plugin.ContentPage,
	}
	if p == nil || *p != want {
		t.Errorf("preview =\n%+v\nwant\n%+v", p, want)
	}
}

func TestWebsite_Defaults(t *testing.T) {
	s := &fakeSession{html: `<html><head><meta property="og:site_name" content="Acme"></head></html>`}
	p := NewWebsiteExtractor(testBase()).Extract(context.Background(), s, "http://acme.test:8080/")

	if p.Title != "acme.test" {
		t.Errorf("title = %q, want domain", p.Title)
	}
	if p.SiteName != "Acme" {
		t.Errorf("siteName = %q", p.SiteName)
	}
	if p.Favicon != "http://acme.test:8080/favicon.ico" {
		t.Errorf("favicon = %q", p.Favicon)
	}
}

func TestWebsite_Fallback(t *testing.T) {
	s := &fakeSession{navErr: errors.New("timeout")}
	e := NewWebsiteExtractor(testBase())

	p := e.Extract(context.Background(), s, "example.org/about")
	if p == nil {
		t.Fatal("Extract returned nil")
	}
	if p.Title != "example.org" || p.Favicon != "https://example.org/favicon.ico" {
		t.Errorf("fallback = %+v", p)
	}

	if p := e.Extract(context.Background(), s, ""); p != nil {
		t.Errorf("Extract(\"\") = %+v, want nil", p)
	}
}

func TestSiteNameFromTitle(t *testing.T) {
	tests := map[string]string{
		"Home | Acme":         "Home",
		"Article - Blog | X":  "Article",
		"Plain":               "Plain",
		"Dash-in-word - Site": "Dash-in-word",
		"":                    "",
	}
	for in, want := range tests {
		if got := siteNameFromTitle(in); got != want {
			t.Errorf("siteNameFromTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
