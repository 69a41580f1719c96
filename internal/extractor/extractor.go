// Package extractor implements one preview extraction strategy per platform.
package extractor

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ramkansal/linkscope/internal/config"
	"github.com/ramkansal/linkscope/pkg/plugin"
)

var (
	ErrNoSession  = errors.New("no browser session")
	ErrInvalidURL = errors.New("invalid URL")
)

// Stage names the step of the DOM pipeline that failed.
type Stage string

const (
	StageNavigate Stage = "navigate"
	StageEvaluate Stage = "evaluate"
)

// ExtractError records where a DOM extraction failed. Extractors recover
// from it with their URL fallback; it never reaches Extract's caller.
type ExtractError struct {
	Platform plugin.Platform
	Stage    Stage
	Err      error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s extractor: %s: %v", e.Platform, e.Stage, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// Options bounds the page operations of DOM extractors.
type Options struct {
	UserAgent         string
	NavigationTimeout time.Duration
	SelectorTimeout   time.Duration
}

// DefaultOptions returns the navigation (30s) and selector (5s) bounds.
func DefaultOptions() Options {
	return Options{
		UserAgent:         config.DefaultUserAgent,
		NavigationTimeout: 30 * time.Second,
		SelectorTimeout:   5 * time.Second,
	}
}

// Registry maps platform tags to extractors.
type Registry struct {
	extractors map[plugin.Platform]plugin.Extractor
}

// NewRegistry creates a registry with all built-in extractors.
func NewRegistry(opts Options, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := domExtractor{opts: opts, logger: logger}

	r := &Registry{extractors: make(map[plugin.Platform]plugin.Extractor)}
	for _, ext := range []plugin.Extractor{
		NewTwitterExtractor(base),
		NewYouTubeExtractor(base),
		NewInstagramExtractor(base),
		NewTikTokExtractor(base),
		NewFacebookExtractor(base),
		NewAppleMapsExtractor(),
		NewWebsiteExtractor(base),
	} {
		r.Register(ext)
	}
	return r
}

// Register adds ext, replacing any extractor for the same platform.
func (r *Registry) Register(ext plugin.Extractor) {
	r.extractors[ext.Platform()] = ext
}

// For returns the extractor for p, defaulting to the website extractor.
func (r *Registry) For(p plugin.Platform) plugin.Extractor {
	if ext, ok := r.extractors[p]; ok {
		return ext
	}
	return r.extractors[plugin.PlatformWebsite]
}

// Platforms returns the registered platform tags, sorted.
func (r *Registry) Platforms() []plugin.Platform {
	out := make([]plugin.Platform, 0, len(r.extractors))
	for p := range r.extractors {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
