package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

// BrowserLauncher starts headless Chromium sessions through Rod.
type BrowserLauncher struct {
	cfg BrowserLauncherConfig
}

// BrowserLauncherConfig holds configuration for the browser launcher.
type BrowserLauncherConfig struct {
	Bin           string
	Headless      bool
	NoSandbox     bool
	Proxy         string
	SettleTimeout time.Duration
}

// NewBrowserLauncher creates a new Rod-based launcher. No browser is
// started until Launch is called.
func NewBrowserLauncher(cfg BrowserLauncherConfig) *BrowserLauncher {
	return &BrowserLauncher{cfg: cfg}
}

func (l *BrowserLauncher) Name() string { return "browser" }

// Launch starts one browser process. Each session owns its own process
// and user data dir, both removed on Close.
func (l *BrowserLauncher) Launch(ctx context.Context) (plugin.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ln := launcher.New().
		Headless(l.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if l.cfg.NoSandbox {
		ln = ln.Set("no-sandbox")
	}
	if l.cfg.Bin != "" {
		ln = ln.Bin(l.cfg.Bin)
	}
	if l.cfg.Proxy != "" {
		ln = ln.Proxy(l.cfg.Proxy)
	}

	u, err := ln.Launch()
	if err != nil {
		return nil, wrapLaunch(l.Name(), err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		ln.Kill()
		return nil, wrapLaunch(l.Name(), err)
	}

	return &browserSession{
		browser:  browser,
		launcher: ln,
		settle:   l.cfg.SettleTimeout,
	}, nil
}

type browserSession struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	settle   time.Duration
	once     sync.Once
	err      error
}

func (s *browserSession) NewPage(ctx context.Context) (plugin.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}
	return &browserPage{page: page, settle: s.settle}, nil
}

func (s *browserSession) Close() error {
	s.once.Do(func() {
		s.err = s.browser.Close()
		// Wait for the process to exit and its user data dir to go.
		s.launcher.Cleanup()
	})
	return s.err
}

type browserPage struct {
	page   *rod.Page
	settle time.Duration
}

func (p *browserPage) SetUserAgent(ua string) error {
	return p.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: ua,
	})
}

// Navigate loads url and waits until the network is almost idle, then
// gives scripts a short, best-effort window to finish rendering.
func (p *browserPage) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)

	wait := pg.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := pg.Navigate(url); err != nil {
		return err
	}
	wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.settle > 0 {
		sp := pg.Timeout(p.settle)
		// Page may not fully settle but we can still read the DOM.
		_ = sp.WaitIdle(p.settle)
		sp.CancelTimeout()
	}
	return nil
}

func (p *browserPage) WaitForSelector(ctx context.Context, selector string) error {
	_, err := p.page.Context(ctx).Element(selector)
	return err
}

func (p *browserPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *browserPage) Close() error {
	return p.page.Close()
}
