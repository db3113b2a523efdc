package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "vekt-install/1.0"
	// maxRedirects bounds the redirect chain (release downloads redirect to a CDN)
	maxRedirects = 10
)

// HTTPFetcher downloads with the Go HTTP client. It is always available.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher using a client that follows redirects.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
}

// WithClient replaces the underlying HTTP client.
func (f *HTTPFetcher) WithClient(client *http.Client) *HTTPFetcher {
	if client != nil {
		f.client = client
	}
	return f
}

// Name returns "http".
func (f *HTTPFetcher) Name() string { return NameHTTP }

// Available always returns true.
func (f *HTTPFetcher) Available() bool { return true }

// Fetch issues a GET request. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Mechanism: f.Name(), URL: url, Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Mechanism: f.Name(), URL: url, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		resp.Body.Close()

		return nil, statusError(f.Name(), url, resp.StatusCode)
	}

	return resp.Body, nil
}

func statusError(mechanism, url string, status int) error {
	err := &Error{Kind: KindRequestFailed, Mechanism: mechanism, URL: url, Status: status}
	if status == http.StatusNotFound {
		return errors.WithHint(err, "no release asset was found for this platform; check the releases page")
	}
	return err
}
