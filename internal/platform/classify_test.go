package platform

import (
	"testing"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want plugin.Platform
	}{
		{"twitter status", "https://twitter.com/x/status/1", plugin.PlatformTwitter},
		{"x.com", "https://x.com/jack/status/20", plugin.PlatformTwitter},
		{"x.com subdomain", "https://mobile.x.com/jack", plugin.PlatformTwitter},
		{"uppercase", "HTTPS://TWITTER.COM/Jack", plugin.PlatformTwitter},
		{"youtube", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", plugin.PlatformYouTube},
		{"youtu.be", "https://youtu.be/dQw4w9WgXcQ", plugin.PlatformYouTube},
		{"instagram", "https://www.instagram.com/p/Cabc123/", plugin.PlatformInstagram},
		{"tiktok", "https://www.tiktok.com/@user/video/123", plugin.PlatformTikTok},
		{"facebook", "https://www.facebook.com/zuck", plugin.PlatformFacebook},
		{"fb.com", "https://fb.com/zuck", plugin.PlatformFacebook},
		{"apple maps", "https://maps.apple.com/?ll=48.8,2.3", plugin.PlatformAppleMaps},
		{"generic", "https://example.com", plugin.PlatformWebsite},
		{"netflix is not x", "https://www.netflix.com/title/1", plugin.PlatformWebsite},
		{"empty", "", plugin.PlatformWebsite},
		{"garbage", "::not a url::", plugin.PlatformWebsite},
		{"first match wins", "https://twitter.com/share?u=https://youtube.com/watch", plugin.PlatformTwitter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.url)
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.url, got, tt.want)
			}
			if again := Classify(tt.url); again != got {
				t.Errorf("Classify(%q) not deterministic: %q then %q", tt.url, got, again)
			}
		})
	}
}
