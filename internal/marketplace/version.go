package marketplace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	defaultSiteURL    = "https://es.wallapop.com"
	defaultVersionTTL = time.Hour

	// fallbackAppVersion is used when the site HTML cannot be scraped.
	fallbackAppVersion = "814910"
)

var appVersionRe = regexp.MustCompile(`data-app-version="([^"]+)"`)

// AppVersionProvider implements VersionProvider by scraping the
// data-app-version attribute from the marketplace site HTML. The value is
// cached process-wide and refreshed after a TTL. Thread-safe via mutex.
//
// A scrape failure is not fatal: the provider falls back to a pinned version
// known to be accepted, so Version never returns an error in practice.
type AppVersionProvider struct {
	siteURL   string
	userAgent string
	fallback  string
	ttl       time.Duration
	client    *http.Client

	mu        sync.Mutex
	version   string
	refreshAt time.Time
	nowFunc   func() time.Time // for testing
}

// VersionOption configures the AppVersionProvider.
type VersionOption func(*AppVersionProvider)

// WithSiteURL overrides the default marketplace site URL.
func WithSiteURL(u string) VersionOption {
	return func(p *AppVersionProvider) {
		p.siteURL = u
	}
}

// WithVersionUserAgent overrides the User-Agent sent to the site.
func WithVersionUserAgent(ua string) VersionOption {
	return func(p *AppVersionProvider) {
		p.userAgent = ua
	}
}

// WithVersionTTL overrides how long a scraped version is cached.
func WithVersionTTL(ttl time.Duration) VersionOption {
	return func(p *AppVersionProvider) {
		p.ttl = ttl
	}
}

// WithFallbackVersion overrides the pinned fallback version.
func WithFallbackVersion(v string) VersionOption {
	return func(p *AppVersionProvider) {
		p.fallback = v
	}
}

// WithVersionHTTPClient overrides the default HTTP client.
func WithVersionHTTPClient(c *http.Client) VersionOption {
	return func(p *AppVersionProvider) {
		p.client = c
	}
}

// WithVersionNowFunc overrides the time function for testing.
func WithVersionNowFunc(f func() time.Time) VersionOption {
	return func(p *AppVersionProvider) {
		p.nowFunc = f
	}
}

// NewAppVersionProvider creates a new site-scraping version provider.
func NewAppVersionProvider(opts ...VersionOption) *AppVersionProvider {
	p := &AppVersionProvider{
		siteURL:  defaultSiteURL,
		fallback: fallbackAppVersion,
		ttl:      defaultVersionTTL,
		client:   &http.Client{Timeout: 10 * time.Second},
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Version returns the current marketplace app version, refreshing the cached
// value when the TTL has elapsed.
func (p *AppVersionProvider) Version(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.version != "" && p.nowFunc().Before(p.refreshAt) {
		return p.version, nil
	}

	version, err := p.scrape(ctx)
	if err != nil {
		version = p.fallback
	}

	p.version = version
	p.refreshAt = p.nowFunc().Add(p.ttl)
	return version, nil
}

func (p *AppVersionProvider) scrape(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.siteURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating site request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching site HTML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching site HTML: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading site HTML: %w", err)
	}

	match := appVersionRe.FindSubmatch(body)
	if match == nil {
		return "", fmt.Errorf("app version attribute not found in site HTML")
	}

	// The header wants the version without dots: 8.149.10 -> 814910.
	return strings.ReplaceAll(string(match[1]), ".", ""), nil
}
