package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ramkansal/linkscope/internal/cache"
	"github.com/ramkansal/linkscope/internal/config"
	"github.com/ramkansal/linkscope/internal/extractor"
	"github.com/ramkansal/linkscope/internal/scraper"
	"github.com/ramkansal/linkscope/pkg/plugin"
)

type stubLauncher struct{}

func (stubLauncher) Name() string { return "stub" }

func (stubLauncher) Launch(ctx context.Context) (plugin.Session, error) {
	return stubSession{}, nil
}

type stubSession struct{}

func (stubSession) NewPage(ctx context.Context) (plugin.Page, error) {
	return nil, errors.New("offline")
}

func (stubSession) Close() error { return nil }

// emptyWebsite never produces a preview.
type emptyWebsite struct{}

func (emptyWebsite) Platform() plugin.Platform { return plugin.PlatformWebsite }

func (emptyWebsite) Extract(context.Context, plugin.Session, string) *plugin.Preview { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *scraper.Scraper) {
	t.Helper()
	reg := extractor.NewRegistry(extractor.Options{NavigationTimeout: 50 * time.Millisecond}, zap.NewNop())
	reg.Register(emptyWebsite{})

	s := scraper.New(stubLauncher{}, cache.New[*plugin.Preview](), reg, scraper.DefaultOptions(), zap.NewNop())
	srv := httptest.NewServer(NewRouter(s, []string{"https://app.example"}, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, s
}

func getPreview(t *testing.T, srv *httptest.Server, target string) (int, PreviewResponse) {
	t.Helper()
	u := srv.URL + "/api/preview"
	if target != "" {
		u += "?url=" + url.QueryEscape(target)
	}
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()

	var body PreviewResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.StatusCode, body
}

func TestPreview(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("success", func(t *testing.T) {
		code, body := getPreview(t, srv, "https://maps.apple.com/?ll=48.8566,2.3522&q=Paris")
		if code != http.StatusOK || !body.Success {
			t.Fatalf("status %d, body %+v", code, body)
		}
		if body.Data == nil || body.Data.Platform != plugin.PlatformAppleMaps || body.Data.Title != "Paris" {
			t.Errorf("data = %+v", body.Data)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		code, body := getPreview(t, srv, "https://twitter.com/jack/status/20")
		if code != http.StatusOK || !body.Success || body.Data.PostID != "20" {
			t.Errorf("status %d, body %+v", code, body)
		}
	})

	t.Run("no data", func(t *testing.T) {
		code, body := getPreview(t, srv, "https://example.com")
		if code != http.StatusOK {
			t.Fatalf("status = %d, want 200", code)
		}
		if body.Success || body.Data != nil || body.Warning != noDataWarning {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("missing url", func(t *testing.T) {
		code, body := getPreview(t, srv, "")
		if code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", code)
		}
		if body.Success || body.Error == "" {
			t.Errorf("body = %+v", body)
		}
	})
}

func TestDeleteCache(t *testing.T) {
	srv, s := newTestServer(t)
	a := "https://maps.apple.com/?q=A"
	b := "https://maps.apple.com/?q=B"
	getPreview(t, srv, a)
	getPreview(t, srv, b)
	if n := s.Cache().Len(); n != 2 {
		t.Fatalf("cache has %d entries, want 2", n)
	}

	del := func(query string) {
		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/preview/cache"+query, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("DELETE status = %d", resp.StatusCode)
		}
	}

	del("?url=" + url.QueryEscape(a))
	if s.Cache().Has(a) || !s.Cache().Has(b) {
		t.Error("expected only the named entry to be removed")
	}

	del("")
	if n := s.Cache().Len(); n != 0 {
		t.Errorf("cache has %d entries after clear", n)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d", path, resp.StatusCode)
		}
	}
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/preview", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	cfg := config.Defaults().Server
	cfg.Addr = "127.0.0.1:0"
	s := New(cfg, http.NotFoundHandler(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRequestID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if id := resp.Header.Get("X-Request-ID"); len(id) != 26 {
		t.Errorf("generated request id = %q, want a ULID", id)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if id := resp.Header.Get("X-Request-ID"); id != "abc-123" {
		t.Errorf("request id = %q, want the caller's", id)
	}
}
