// Package crawler discovers page URLs and drives the extractor over
// them under a fixed parallelism bound.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docscraper/docscraper/pkg/version"
)

// Fetcher wraps an HTTP client with the crawler's fixed identity and
// optional basic-auth credentials. Every request carries the same
// user-agent so site analytics can tell the crawler from human traffic.
type Fetcher struct {
	client    *http.Client
	userAgent string
	basicUser string
	basicPass string
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	// Timeout bounds one fetch. Zero keeps the transport default.
	Timeout time.Duration

	// BasicAuthUser and BasicAuthPassword, when both set, are applied
	// as an Authorization: Basic header on every fetch.
	BasicAuthUser     string
	BasicAuthPassword string
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: version.UserAgent(),
		basicUser: cfg.BasicAuthUser,
		basicPass: cfg.BasicAuthPassword,
	}
}

// Fetch retrieves one URL. Non-2xx statuses are errors; callers decide
// whether the failure is a page or a discovery error.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if f.basicUser != "" {
		req.SetBasicAuth(f.basicUser, f.basicPass)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}
