// Package http provides an HTTP-based implementation of reciparse.Fetcher
// for sources that don't require JavaScript rendering.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/reciparse"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 64 << 20

// userAgent identifies the fetcher to remote servers.
const userAgent = "reciparse/1.0 (+https://github.com/fwojciec/reciparse)"

// Ensure Fetcher implements reciparse.Fetcher at compile time.
var _ reciparse.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves source bytes with a single GET request. Textual
// responses are transcoded to UTF-8 using the declared or sniffed charset;
// binary responses are returned untouched.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize limits the number of body bytes read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body at url. A non-2xx status is a FetchNetwork
// error carrying the status; connection failures and timeouts are
// FetchTransport errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &reciparse.FetchError{Kind: reciparse.FetchTransport, Ref: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &reciparse.FetchError{Kind: reciparse.FetchTransport, Ref: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &reciparse.FetchError{Kind: reciparse.FetchNetwork, Ref: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &reciparse.FetchError{Kind: reciparse.FetchTransport, Ref: url, Err: err}
	}
	if int64(len(data)) > f.maxBodySize {
		return nil, &reciparse.FetchError{Kind: reciparse.FetchTransport, Ref: url, Err: errors.New("response body too large")}
	}

	if contentType := resp.Header.Get("Content-Type"); isTextual(contentType) {
		r, err := charset.NewReader(bytes.NewReader(data), contentType)
		if err != nil {
			return nil, &reciparse.FetchError{Kind: reciparse.FetchTransport, Ref: url, Err: fmt.Errorf("decode charset: %w", err)}
		}
		if data, err = io.ReadAll(r); err != nil {
			return nil, &reciparse.FetchError{Kind: reciparse.FetchTransport, Ref: url, Err: err}
		}
	}

	return data, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/") || strings.Contains(ct, "xml") || strings.Contains(ct, "json")
}
