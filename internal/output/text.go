// Package output renders scrape results for people and for programs.
package output

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

// TextWriter writes scrape results to a plain text file,
// mirroring the terminal output (without ANSI color codes).
type TextWriter struct {
	path    string
	version string
	started time.Time

	lines  []string
	ok     int
	failed int
	mu     sync.Mutex
}

// NewTextWriter creates a new plain-text output writer.
func NewTextWriter(path, version string) *TextWriter {
	return &TextWriter{path: path, version: version, started: time.Now()}
}

func (w *TextWriter) Name() string { return "text" }

func (w *TextWriter) WriteResult(result *plugin.Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := result.Preview
	if p == nil {
		w.failed++
		w.lines = append(w.lines, fmt.Sprintf("  [x] %s (%s) no preview data", result.URL, result.Elapsed))
		return nil
	}

	w.ok++
	w.lines = append(w.lines, fmt.Sprintf("  [+] %s (%s) [%s]", result.URL, result.Elapsed, p.Platform))
	for _, f := range Fields(p) {
		w.lines = append(w.lines, fmt.Sprintf("      +-- %s: %s", f.Label, f.Value))
	}
	return nil
}

func (w *TextWriter) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n  LINKSCOPE v%s\n", w.version))
	b.WriteString("  Link previews for social and web URLs\n")
	b.WriteString("  " + strings.Repeat("-", 58) + "\n\n")
	b.WriteString(fmt.Sprintf("  Started: %s\n\n", w.started.Format(time.RFC1123)))

	for _, line := range w.lines {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n  " + strings.Repeat("-", 50) + "\n")
	b.WriteString("  Scrape complete\n")
	b.WriteString(fmt.Sprintf("    URLs:  %d previewed, %d failed in %s\n", w.ok, w.failed, FormatDuration(time.Since(w.started))))
	b.WriteString("\n")

	return os.WriteFile(w.path, []byte(b.String()), 0644)
}

// ---------- helpers ----------

// Field is one labelled value of a preview.
type Field struct {
	Label string
	Value string
}

// Fields lists the non-empty fields of p in display order.
func Fields(p *plugin.Preview) []Field {
	var out []Field
	add := func(label, value string) {
		if value != "" {
			out = append(out, Field{label, value})
		}
	}

	add("title", p.Title)
	add("description", truncate(p.Description, 160))
	add("site", p.SiteName)
	add("type", p.ContentType)
	add("image", p.Image)

	author := p.Author
	if p.AuthorHandle != "" {
		author = strings.TrimSpace(author + " " + p.AuthorHandle)
	}
	add("author", author)
	add("author image", p.AuthorImage)

	add("video id", p.VideoID)
	add("post id", p.PostID)
	add("username", p.Username)

	var counters []string
	for _, c := range []struct{ name, v string }{
		{"likes", p.LikeCount},
		{"retweets", p.RetweetCount},
		{"replies", p.ReplyCount},
		{"views", p.ViewCount},
	} {
		if c.v != "" {
			counters = append(counters, c.name+":"+c.v)
		}
	}
	add("engagement", strings.Join(counters, " "))

	if p.Coordinates != nil {
		add("coordinates", fmt.Sprintf("%g,%g", p.Coordinates.Lat, p.Coordinates.Lng))
	}
	add("address", p.Address)
	add("domain", p.Domain)
	add("favicon", p.Favicon)
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// FormatDuration prints d compactly: 850ms, 2.4s, 1m5s.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}
