package evidence

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ticoworld/veritas/internal/domain"
)

func TestIsCapturableWebsite(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://example.org", true},
		{"http://token-project.io/about", true},
		{"", false},
		{"ftp://example.org", false},
		{"https://twitter.com/some_token", false},
		{"https://x.com/some_token", false},
		{"https://t.me/tokenchat", false},
		{"https://discord.gg/abc", false},
		{"https://linktr.ee/token", false},
		{"not a url at all \x00", false},
	}
	for _, c := range cases {
		if got := IsCapturableWebsite(c.url); got != c.want {
			t.Errorf("IsCapturableWebsite(%q) = %v, want %v", c.url, got, c.want)
		}
	}
}

func TestAPICapturer_Capture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_key") != "key" {
			t.Errorf("missing access key, query: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("url") != "https://example.org" {
			t.Errorf("unexpected target url: %s", r.URL.Query().Get("url"))
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	t.Cleanup(srv.Close)

	c := NewAPICapturer(srv.URL, "key", srv.Client())
	ev, err := c.Capture(context.Background(), "https://example.org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(ev.Image) != "png-bytes" || ev.MediaType != "image/png" {
		t.Errorf("unexpected evidence: %+v", ev)
	}
	if ev.Provider != "api" || ev.SourceURL != "https://example.org" {
		t.Errorf("unexpected provenance: %+v", ev)
	}
}

func TestAPICapturer_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewAPICapturer(srv.URL, "key", srv.Client())
	_, err := c.Capture(context.Background(), "https://example.org")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestAPICapturer_EmptyBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewAPICapturer(srv.URL, "key", srv.Client())
	if _, err := c.Capture(context.Background(), "https://example.org"); err == nil {
		t.Error("expected error on empty screenshot")
	}
}

// fakeCapturer scripts a Capturer for chain tests.
type fakeCapturer struct {
	ev    *domain.VisualEvidence
	err   error
	calls int
}

func (f *fakeCapturer) Capture(ctx context.Context, pageURL string) (*domain.VisualEvidence, error) {
	f.calls++
	return f.ev, f.err
}

func TestChainCapturer_FirstSuccessWins(t *testing.T) {
	first := &fakeCapturer{ev: &domain.VisualEvidence{Provider: "api"}}
	second := &fakeCapturer{ev: &domain.VisualEvidence{Provider: "chromedp"}}

	chain := NewChainCapturer(first, second)
	ev, err := chain.Capture(context.Background(), "https://example.org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Provider != "api" {
		t.Errorf("expected first provider, got %s", ev.Provider)
	}
	if second.calls != 0 {
		t.Error("second provider must not be called")
	}
}

func TestChainCapturer_FallsThroughOnError(t *testing.T) {
	first := &fakeCapturer{err: ErrRateLimited}
	second := &fakeCapturer{ev: &domain.VisualEvidence{Provider: "chromedp"}}

	chain := NewChainCapturer(first, second)
	ev, err := chain.Capture(context.Background(), "https://example.org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Provider != "chromedp" {
		t.Errorf("expected fallback provider, got %s", ev.Provider)
	}
}

func TestChainCapturer_AllFail(t *testing.T) {
	boom := errors.New("render failed")
	chain := NewChainCapturer(&fakeCapturer{err: ErrRateLimited}, &fakeCapturer{err: boom})

	_, err := chain.Capture(context.Background(), "https://example.org")
	if !errors.Is(err, boom) {
		t.Errorf("expected last error, got %v", err)
	}
}

func TestChainCapturer_Empty(t *testing.T) {
	if _, err := NewChainCapturer().Capture(context.Background(), "https://example.org"); err == nil {
		t.Error("expected error from empty chain")
	}
}
