package extractor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

// fakeSession serves a fixed HTML document, or fails navigation with
// navErr. It counts every call so tests can assert the browser was used
// or left alone.
type fakeSession struct {
	mu        sync.Mutex
	html      string
	navErr    error
	hang      bool
	panicHTML bool

	newPages   int
	navigates  int
	pageCloses int
	userAgent  string
}

func (s *fakeSession) NewPage(ctx context.Context) (plugin.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newPages++
	return &fakePage{s: s}, nil
}

func (s *fakeSession) Close() error { return nil }

func (s *fakeSession) calls() (newPages, navigates, closes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newPages, s.navigates, s.pageCloses
}

type fakePage struct {
	s *fakeSession
}

func (p *fakePage) SetUserAgent(ua string) error {
	p.s.mu.Lock()
	p.s.userAgent = ua
	p.s.mu.Unlock()
	return nil
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.s.mu.Lock()
	p.s.navigates++
	hang, navErr := p.s.hang, p.s.navErr
	p.s.mu.Unlock()

	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return navErr
}

func (p *fakePage) WaitForSelector(ctx context.Context, selector string) error {
	return nil
}

func (p *fakePage) HTML() (string, error) {
	if p.s.panicHTML {
		panic("page crashed")
	}
	return p.s.html, nil
}

func (p *fakePage) Close() error {
	p.s.mu.Lock()
	p.s.pageCloses++
	p.s.mu.Unlock()
	return nil
}

func testBase() domExtractor {
	return domExtractor{
		opts: Options{
			UserAgent:         "linkscope-test",
			NavigationTimeout: 50 * time.Millisecond,
			SelectorTimeout:   10 * time.Millisecond,
		},
		logger: zap.NewNop(),
	}
}
