package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDownloadBytes caps a single scene download. Anything larger than this is
// not a plausible .splinecode export.
const maxDownloadBytes = 512 << 20

// Fetcher retrieves raw scene bytes from a remote content host. It makes no
// assumption about the host beyond byte retrieval over a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher downloads scene files over HTTP with a fixed request timeout.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests time out after the given
// duration. Redirects are followed.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the URL and returns the response body. Network failures,
// timeouts and non-2xx statuses are all surfaced as *TransportError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	if len(body) > maxDownloadBytes {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("response exceeds %d byte limit", maxDownloadBytes)}
	}
	return body, nil
}
