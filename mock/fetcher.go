package mock

import (
	"context"

	"github.com/fwojciec/reciparse"
)

var _ reciparse.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of reciparse.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, ref string) ([]byte, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return f.FetchFn(ctx, ref)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
