package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rmaksimov/founderscout/internal/cache"
	"github.com/rmaksimov/founderscout/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "founderscout-test/0.1",
		MaxBodyBytes: 1_000_000,
	}
}

func TestStaticFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div class="card"><h3>Acme Robotics</h3><p>Waterloo, ON</p></div></body></html>`))
	}))
	defer server.Close()

	f := NewStaticFetcher(testHTTPConfig(), nil)
	defer f.Close()

	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if page.Meta.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", page.Meta.StatusCode)
	}
	if !strings.Contains(page.Text, "Acme Robotics") {
		t.Errorf("expected page text to contain company name, got %q", page.Text)
	}
	if page.Doc.Find("div.card").Length() != 1 {
		t.Error("expected parsed document to expose div.card")
	}
}

func TestStaticFetcher_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := NewStaticFetcher(testHTTPConfig(), nil)
	defer f.Close()

	_, err := f.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fe.Kind != KindStatus {
		t.Errorf("expected kind %q, got %q", KindStatus, fe.Kind)
	}
	if IsFatal(err) {
		t.Error("status error must not be fatal for the run")
	}
}

func TestStaticFetcher_NetworkError(t *testing.T) {
	f := NewStaticFetcher(testHTTPConfig(), nil)
	defer f.Close()

	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
	if err == nil {
		t.Fatal("expected network error")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fe.Kind != KindNetwork && fe.Kind != KindTimeout {
		t.Errorf("expected network/timeout kind, got %q", fe.Kind)
	}
}

func TestStaticFetcher_CacheHit(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`<html><body><p>cached page</p></body></html>`))
	}))
	defer server.Close()

	pageCache := cache.NewMemoryCache(time.Minute, time.Minute)
	f := NewStaticFetcher(testHTTPConfig(), pageCache)
	defer f.Close()

	if _, err := f.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if hits != 1 {
		t.Errorf("expected 1 origin hit, got %d", hits)
	}
	if !page.Meta.FromCache {
		t.Error("expected second fetch to be served from cache")
	}
}

func TestStaticFetcher_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		_, _ = w.Write([]byte(`<html><body>secret</body></html>`))
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.RespectRobots = true
	f := NewStaticFetcher(cfg, nil)
	defer f.Close()

	_, err := f.Fetch(context.Background(), server.URL+"/private/companies")
	if err == nil {
		t.Fatal("expected robots disallow error")
	}

	var fe *FetchError
	if !errors.As(err, &fe) || fe.Kind != KindRobots {
		t.Errorf("expected robots error, got %v", err)
	}

	// Allowed paths still fetch
	if _, err := f.Fetch(context.Background(), server.URL+"/companies"); err != nil {
		t.Errorf("allowed path failed: %v", err)
	}
}

func TestStaticFetcher_BodySizeCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + strings.Repeat("x", 4096) + "</body></html>"))
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 64
	f := NewStaticFetcher(cfg, nil)
	defer f.Close()

	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(page.Text) > 128 {
		t.Errorf("expected truncated body, got %d chars of text", len(page.Text))
	}
}
