package mock

import (
	"context"

	"github.com/fwojciec/reciparse"
)

var _ reciparse.Backend = (*Backend)(nil)

// Backend is a mock implementation of reciparse.Backend.
type Backend struct {
	ExtractFn func(ctx context.Context, req *reciparse.ExtractionRequest) (*reciparse.ToolCall, error)
}

func (b *Backend) Extract(ctx context.Context, req *reciparse.ExtractionRequest) (*reciparse.ToolCall, error) {
	return b.ExtractFn(ctx, req)
}
