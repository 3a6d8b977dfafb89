package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mvalldaura/marketsearch/internal/metrics"
)

const (
	defaultSearchURL = "https://api.wallapop.com/api/v3/search"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:146.0) Gecko/20100101 Firefox/146.0"
	defaultDeviceOS  = "0"
	defaultSource    = "recent_searches"

	defaultLatitude  = 43.3707332
	defaultLongitude = -8.3958532

	// maxErrorBody caps how much of an upstream error body is kept.
	maxErrorBody = 512
)

// APIClient implements Client against the Wallapop search API.
type APIClient struct {
	versions    VersionProvider
	searchURL   string
	userAgent   string
	deviceOS    string
	source      string
	defaultLat  float64
	defaultLon  float64
	client      *http.Client
	rateLimiter *RateLimiter
}

// APIOption configures the APIClient.
type APIOption func(*APIClient)

// WithSearchURL overrides the default search endpoint.
func WithSearchURL(u string) APIOption {
	return func(c *APIClient) {
		c.searchURL = u
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) APIOption {
	return func(c *APIClient) {
		c.userAgent = ua
	}
}

// WithDeviceOS overrides the x-deviceos header value.
func WithDeviceOS(os string) APIOption {
	return func(c *APIClient) {
		c.deviceOS = os
	}
}

// WithSource overrides the fixed source tag sent with every search.
func WithSource(s string) APIOption {
	return func(c *APIClient) {
		c.source = s
	}
}

// WithDefaultLocation overrides the default geolocation used when the caller
// provides none.
func WithDefaultLocation(lat, lon float64) APIOption {
	return func(c *APIClient) {
		c.defaultLat = lat
		c.defaultLon = lon
	}
}

// WithSearchHTTPClient overrides the default HTTP client. The client's
// timeout bounds every upstream call.
func WithSearchHTTPClient(hc *http.Client) APIOption {
	return func(c *APIClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter that controls per-second and daily
// call limits. When set, every Search() call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) APIOption {
	return func(c *APIClient) {
		c.rateLimiter = r
	}
}

// NewAPIClient creates a new Wallapop search API client.
func NewAPIClient(versions VersionProvider, opts ...APIOption) *APIClient {
	c := &APIClient{
		versions:   versions,
		searchURL:  defaultSearchURL,
		userAgent:  defaultUserAgent,
		deviceOS:   defaultDeviceOS,
		source:     defaultSource,
		defaultLat: defaultLatitude,
		defaultLon: defaultLongitude,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search implements Client.Search by querying the upstream search endpoint
// once. It never retries; retry policy is the caller's concern.
func (c *APIClient) Search(
	ctx context.Context,
	req SearchRequest,
) (*SearchPage, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.UpstreamDailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w: %w", ErrUnavailable, err)
		}
		metrics.UpstreamDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	version, err := c.versions.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting app version: %w: %w", ErrUnavailable, err)
	}

	u := c.buildSearchURL(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("x-appversion", version)
	httpReq.Header.Set("x-deviceos", c.deviceOS)

	metrics.UpstreamRequestsTotal.Inc()
	start := time.Now()

	resp, err := c.client.Do(httpReq)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("executing search request: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("reading response body: %w: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.UpstreamErrorsTotal.WithLabelValues("rejected").Inc()
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
		}
	}

	page, err := parseSearchResponse(body)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}
	return page, nil
}

func parseSearchResponse(body []byte) (*SearchPage, error) {
	var apiResp searchAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w: %w", ErrMalformedResponse, err)
	}

	if apiResp.Data == nil || apiResp.Data.Section == nil || apiResp.Data.Section.Payload == nil {
		return nil, fmt.Errorf("missing data.section.payload: %w", ErrMalformedResponse)
	}

	items, slugs := ToItems(apiResp.Data.Section.Payload.Items)

	page := &SearchPage{Items: items, Slugs: slugs}

	// The next_page token is only a real continuation while the upstream
	// keeps serving organic results; other section types end the chain.
	if apiResp.Meta != nil && apiResp.Meta.NextSectionType == organicSection {
		page.NextToken = apiResp.Meta.NextPage
	}

	return page, nil
}

func (c *APIClient) buildSearchURL(req SearchRequest) string {
	params := url.Values{}
	params.Set("source", c.source)
	params.Set("keywords", req.Query)

	lat, lon := c.defaultLat, c.defaultLon
	if req.Latitude != nil && req.Longitude != nil {
		lat, lon = *req.Latitude, *req.Longitude
	}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))

	if req.NextToken != "" {
		params.Set("next_page", req.NextToken)
	}

	return c.searchURL + "?" + params.Encode()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
