package marketplace_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvalldaura/marketsearch/internal/marketplace"
)

const siteHTML = `<!DOCTYPE html>
<html>
<body data-app-version="8.149.10">
<h1>marketplace</h1>
</body>
</html>`

func TestAppVersionProvider_Version(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(siteHTML))
	}))
	defer srv.Close()

	p := marketplace.NewAppVersionProvider(
		marketplace.WithSiteURL(srv.URL),
		marketplace.WithVersionUserAgent("test-agent"),
	)

	v, err := p.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "814910", v, "dots stripped from scraped version")

	// Second call within the TTL is served from cache.
	v, err = p.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "814910", v)
	assert.Equal(t, 1, calls)
}

func TestAppVersionProvider_RefreshAfterTTL(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(siteHTML))
	}))
	defer srv.Close()

	now := time.Now()
	p := marketplace.NewAppVersionProvider(
		marketplace.WithSiteURL(srv.URL),
		marketplace.WithVersionTTL(time.Minute),
		marketplace.WithVersionNowFunc(func() time.Time { return now }),
	)

	_, err := p.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	now = now.Add(2 * time.Minute)

	_, err = p.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "cache refreshed after TTL")
}

func TestAppVersionProvider_Fallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "site unavailable",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "version attribute missing",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html><body>nothing here</body></html>`))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := marketplace.NewAppVersionProvider(
				marketplace.WithSiteURL(srv.URL),
				marketplace.WithFallbackVersion("700000"),
			)

			v, err := p.Version(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "700000", v)
		})
	}
}
