package extractor

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

const staticMapURL = "https://staticmap.openstreetmap.de/staticmap.php"

// AppleMapsExtractor builds previews from the query string alone; Apple
// Maps links carry the place name, address and coordinates inline.
type AppleMapsExtractor struct{}

func NewAppleMapsExtractor() *AppleMapsExtractor { return &AppleMapsExtractor{} }

func (e *AppleMapsExtractor) Platform() plugin.Platform { return plugin.PlatformAppleMaps }

// Extract never touches session.
func (e *AppleMapsExtractor) Extract(_ context.Context, _ plugin.Session, rawURL string) *plugin.Preview {
	p := &plugin.Preview{
		URL:         rawURL,
		Platform:    plugin.PlatformAppleMaps,
		SiteName:    "Apple Maps",
		ContentType: plugin.ContentPage,
	}

	var q url.Values
	if u, err := url.Parse(rawURL); err == nil {
		q = u.Query()
	}

	name := firstNonEmpty(q.Get("t"), q.Get("name"))
	p.Address = firstNonEmpty(q.Get("address"), q.Get("q"))

	for _, key := range []string{"ll", "coordinate", "sll", "center"} {
		if c, ok := parseLatLng(q.Get(key)); ok {
			p.Coordinates = c
			break
		}
	}

	p.Title = firstNonEmpty(name, q.Get("q"), q.Get("address"), "Location on Apple Maps")
	p.Description = p.Address
	if c := p.Coordinates; c != nil {
		if p.Description == "" {
			p.Description = formatLatLng(c)
		}
		p.Image = staticMap(c)
	}
	return p
}

// parseLatLng reads "lat,lng" and rejects out-of-range pairs.
func parseLatLng(s string) (*plugin.Coordinates, bool) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return nil, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return nil, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return nil, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, false
	}
	return &plugin.Coordinates{Lat: lat, Lng: lng}, true
}

func formatLatLng(c *plugin.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func staticMap(c *plugin.Coordinates) string {
	ll := formatLatLng(c)
	return fmt.Sprintf("%s?center=%s&zoom=15&size=600x300&markers=%s,red-pushpin", staticMapURL, ll, ll)
}
