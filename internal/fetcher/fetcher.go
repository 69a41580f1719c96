// Package fetcher provides the browser backends behind plugin.Launcher.
package fetcher

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramkansal/linkscope/internal/config"
	"github.com/ramkansal/linkscope/pkg/plugin"
)

// ErrLaunch wraps every failure to start a session.
var ErrLaunch = errors.New("session launch failed")

func wrapLaunch(backend string, err error) error {
	return fmt.Errorf("%w (%s): %v", ErrLaunch, backend, err)
}

// New builds the launcher selected by cfg.Mode.
func New(cfg config.BrowserConfig, logger *zap.Logger) (plugin.Launcher, error) {
	httpLauncher := func() (*HTTPLauncher, error) {
		return NewHTTPLauncher(HTTPLauncherConfig{Proxy: cfg.Proxy})
	}
	browser := func() *BrowserLauncher {
		return NewBrowserLauncher(BrowserLauncherConfig{
			Bin:           cfg.Bin,
			Headless:      cfg.Headless,
			NoSandbox:     cfg.NoSandbox,
			Proxy:         cfg.Proxy,
			SettleTimeout: cfg.SettleTimeout,
		})
	}

	switch cfg.Mode {
	case "browser", "":
		return browser(), nil
	case "http":
		return httpLauncher()
	case "auto":
		hl, err := httpLauncher()
		if err != nil {
			return nil, err
		}
		return NewFallbackLauncher(browser(), hl, logger), nil
	default:
		return nil, fmt.Errorf("unknown browser mode %q", cfg.Mode)
	}
}

// FallbackLauncher tries primary and, when it cannot start, secondary.
type FallbackLauncher struct {
	primary   plugin.Launcher
	secondary plugin.Launcher
	logger    *zap.Logger
}

func NewFallbackLauncher(primary, secondary plugin.Launcher, logger *zap.Logger) *FallbackLauncher {
	return &FallbackLauncher{primary: primary, secondary: secondary, logger: logger}
}

func (l *FallbackLauncher) Name() string {
	return l.primary.Name() + "+" + l.secondary.Name()
}

func (l *FallbackLauncher) Launch(ctx context.Context) (plugin.Session, error) {
	s, err := l.primary.Launch(ctx)
	if err == nil {
		return s, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	l.logger.Warn("primary launcher unavailable, falling back",
		zap.String("primary", l.primary.Name()),
		zap.String("fallback", l.secondary.Name()),
		zap.Error(err))

	s, err2 := l.secondary.Launch(ctx)
	if err2 != nil {
		return nil, errors.Join(err, err2)
	}
	return s, nil
}
