package fs

import (
	"context"
	"os"

	"github.com/fwojciec/reciparse"
)

// Ensure Fetcher implements reciparse.Fetcher at compile time.
var _ reciparse.Fetcher = (*Fetcher)(nil)

// Fetcher reads local sources from disk.
type Fetcher struct{}

// NewFetcher creates a new filesystem Fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// Fetch reads the file at path. Failures are FetchFilesystem errors.
func (f *Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &reciparse.FetchError{Kind: reciparse.FetchFilesystem, Ref: path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &reciparse.FetchError{Kind: reciparse.FetchFilesystem, Ref: path, Err: err}
	}
	if info.IsDir() {
		return nil, &reciparse.FetchError{Kind: reciparse.FetchFilesystem, Ref: path, Err: errIsDir}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &reciparse.FetchError{Kind: reciparse.FetchFilesystem, Ref: path, Err: err}
	}
	return data, nil
}

// Close is a no-op.
func (f *Fetcher) Close() error {
	return nil
}
