package transport

import (
	"context"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vekt-dev/vekt-install/internal/config"
)

// Mechanism names accepted by FromNames.
const (
	NameHTTP = "http"
	NameCurl = "curl"
	NameWget = "wget"
)

// Fetcher is a single download mechanism.
type Fetcher interface {
	// Name identifies the mechanism in errors and logs.
	Name() string

	// Available reports whether the mechanism can be used on this host.
	Available() bool

	// Fetch starts a GET of url and returns the response body as a stream.
	// The caller must close the returned reader.
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// Chain is an ordered list of mechanisms. Only the first available one is used.
type Chain struct {
	fetchers []Fetcher
	logger   config.Logger
}

// NewChain creates a chain trying fetchers in the given order.
func NewChain(fetchers ...Fetcher) *Chain {
	return &Chain{fetchers: fetchers, logger: config.NopLogger()}
}

// WithLogger sets the logger used to report mechanism selection.
func (c *Chain) WithLogger(logger config.Logger) *Chain {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Select returns the first available mechanism.
func (c *Chain) Select() (Fetcher, error) {
	for _, f := range c.fetchers {
		if f.Available() {
			return f, nil
		}
		c.logger.Debug("transport unavailable", "mechanism", f.Name())
	}

	return nil, errors.WithHint(
		&Error{Kind: KindNoMechanism},
		"install curl or wget, or enable the built-in http transport",
	)
}

// Fetch retrieves url with the first available mechanism. Failures of that
// mechanism are returned as is; later mechanisms are not tried.
func (c *Chain) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	f, err := c.Select()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetching", "mechanism", f.Name(), "url", url)
	return f.Fetch(ctx, url)
}

// Names lists the configured mechanisms in order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.fetchers))
	for _, f := range c.fetchers {
		names = append(names, f.Name())
	}
	return names
}

// FromNames builds a chain from mechanism names such as "http", "curl" and "wget".
func FromNames(names []string) (*Chain, error) {
	if len(names) == 0 {
		return nil, errors.New("no transports configured")
	}

	fetchers := make([]Fetcher, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case NameHTTP:
			fetchers = append(fetchers, NewHTTPFetcher())
		case NameCurl:
			fetchers = append(fetchers, NewCurlFetcher())
		case NameWget:
			fetchers = append(fetchers, NewWgetFetcher())
		default:
			return nil, errors.Newf("unknown transport %q (valid: http, curl, wget)", raw)
		}
	}

	return NewChain(fetchers...), nil
}
