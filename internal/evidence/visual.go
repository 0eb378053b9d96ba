package evidence

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/Ticoworld/veritas/internal/domain"
)

// DefaultScreenshotEndpoint is the hosted capture API.
const DefaultScreenshotEndpoint = "https://api.apiflash.com/v1/urltoimage"

// Capture timeouts. The hosted provider renders remotely; the local
// chromedp fallback pays a cold browser start, so it gets less time
// before the investigation moves on without visual evidence.
const (
	DefaultCaptureTimeout  = 6 * time.Second
	FallbackCaptureTimeout = 4 * time.Second
)

// socialDomains are link targets that are redirects into social or
// messaging platforms, not project websites. Matched by substring.
var socialDomains = []string{
	"twitter.com",
	"x.com",
	"t.me",
	"telegram.me",
	"discord.gg",
	"discord.com",
	"instagram.com",
	"tiktok.com",
	"facebook.com",
	"youtube.com",
	"medium.com",
	"linktr.ee",
	"reddit.com",
}

// IsCapturableWebsite reports whether a URL points at an actual project
// website worth screenshotting, rather than a social/messaging redirect.
func IsCapturableWebsite(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, d := range socialDomains {
		if strings.Contains(host, d) {
			return false
		}
	}
	return true
}

// Capturer produces visual evidence for a URL, or an error within its
// timeout. Callers treat every error as "not captured".
type Capturer interface {
	Capture(ctx context.Context, pageURL string) (*domain.VisualEvidence, error)
}

// APICapturer captures via a hosted screenshot HTTP API.
type APICapturer struct {
	endpoint  string
	accessKey string
	client    *http.Client
}

// NewAPICapturer creates the primary hosted-API capture provider.
func NewAPICapturer(endpoint, accessKey string, client *http.Client) *APICapturer {
	if client == nil {
		client = &http.Client{Timeout: DefaultCaptureTimeout}
	}
	return &APICapturer{endpoint: endpoint, accessKey: accessKey, client: client}
}

// Capture requests a rendered screenshot of pageURL from the API.
func (c *APICapturer) Capture(ctx context.Context, pageURL string) (*domain.VisualEvidence, error) {
	q := url.Values{}
	q.Set("access_key", c.accessKey)
	q.Set("url", pageURL)
	q.Set("format", "png")
	q.Set("full_page", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("capture request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("empty screenshot response")
	}

	mediaType := resp.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "image/png"
	}

	return &domain.VisualEvidence{
		Image:     image,
		MediaType: mediaType,
		SourceURL: pageURL,
		Provider:  "api",
	}, nil
}

// ChromeCapturer captures with a locally launched headless browser.
// Cold-start fallback for deployments without a hosted capture key.
type ChromeCapturer struct {
	timeout time.Duration
}

// NewChromeCapturer creates the chromedp fallback provider.
func NewChromeCapturer() *ChromeCapturer {
	return &ChromeCapturer{timeout: FallbackCaptureTimeout}
}

// Capture renders pageURL headlessly and screenshots the viewport.
func (c *ChromeCapturer) Capture(ctx context.Context, pageURL string) (*domain.VisualEvidence, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var image []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(1280, 800),
		chromedp.Navigate(pageURL),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.CaptureScreenshot(&image),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp: %w", err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("empty screenshot")
	}

	return &domain.VisualEvidence{
		Image:     image,
		MediaType: "image/png",
		SourceURL: pageURL,
		Provider:  "chromedp",
	}, nil
}

// ChainCapturer tries each provider in order and returns the first
// successful capture. Rate limiting on a provider falls through to the
// next one.
type ChainCapturer struct {
	providers []Capturer
}

// NewChainCapturer creates a capture chain over the given providers.
func NewChainCapturer(providers ...Capturer) *ChainCapturer {
	return &ChainCapturer{providers: providers}
}

// Capture runs the chain. Returns the last provider's error when none
// succeed.
func (c *ChainCapturer) Capture(ctx context.Context, pageURL string) (*domain.VisualEvidence, error) {
	var lastErr error
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		ev, err := p.Capture(ctx, pageURL)
		if err == nil {
			return ev, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no capture providers configured")
	}
	return nil, lastErr
}

// Compile-time interface checks.
var (
	_ Capturer = (*APICapturer)(nil)
	_ Capturer = (*ChromeCapturer)(nil)
	_ Capturer = (*ChainCapturer)(nil)
)
