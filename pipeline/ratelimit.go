package pipeline

import (
	"context"

	"github.com/fwojciec/reciparse"
	"golang.org/x/time/rate"
)

var _ reciparse.Backend = (*LimitedBackend)(nil)

// LimitedBackend caps the rate of backend calls across concurrent
// pipelines using a token bucket.
type LimitedBackend struct {
	next    reciparse.Backend
	limiter *rate.Limiter
}

// NewLimitedBackend allows rps calls per second with the given burst.
// A burst below 1 is raised to 1.
func NewLimitedBackend(next reciparse.Backend, rps float64, burst int) *LimitedBackend {
	if burst < 1 {
		burst = 1
	}
	return &LimitedBackend{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Extract waits for a token and delegates to the wrapped backend.
// Returns an error if the context is canceled before a token is available.
func (b *LimitedBackend) Extract(ctx context.Context, req *reciparse.ExtractionRequest) (*reciparse.ToolCall, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, &reciparse.ExtractionError{Reason: "waiting for rate limit", Err: err}
	}
	return b.next.Extract(ctx, req)
}
