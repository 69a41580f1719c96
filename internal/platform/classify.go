// Package platform maps URLs to platform tags.
package platform

import (
	"strings"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

// hostPattern is a hostname fragment searched for in the lower-cased URL.
// Short patterns set bounded so that "x.com" does not match "netflix.com".
type hostPattern struct {
	host    string
	bounded bool
}

type rule struct {
	platform plugin.Platform
	patterns []hostPattern
}

// rules is evaluated in order; the first match wins.
var rules = []rule{
	{plugin.PlatformTwitter, []hostPattern{{"twitter.com", false}, {"x.com", true}}},
	{plugin.PlatformYouTube, []hostPattern{{"youtube.com", false}, {"youtu.be", false}}},
	{plugin.PlatformInstagram, []hostPattern{{"instagram.com", false}}},
	{plugin.PlatformTikTok, []hostPattern{{"tiktok.com", false}}},
	{plugin.PlatformFacebook, []hostPattern{{"facebook.com", false}, {"fb.com", true}}},
	{plugin.PlatformAppleMaps, []hostPattern{{"maps.apple.com", false}}},
}

// Classify returns the platform for rawURL. Empty or unrecognized input
// yields plugin.PlatformWebsite. It never fails.
func Classify(rawURL string) plugin.Platform {
	if rawURL == "" {
		return plugin.PlatformWebsite
	}
	lower := strings.ToLower(rawURL)
	for _, r := range rules {
		for _, p := range r.patterns {
			if contains(lower, p) {
				return r.platform
			}
		}
	}
	return plugin.PlatformWebsite
}

func contains(s string, p hostPattern) bool {
	if !p.bounded {
		return strings.Contains(s, p.host)
	}
	for i := 0; ; {
		j := strings.Index(s[i:], p.host)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 || s[at-1] == '/' || s[at-1] == '.' {
			return true
		}
		i = at + 1
	}
}
