package mock

import (
	"context"

	"github.com/fwojciec/reciparse"
)

var _ reciparse.RecipeExtractor = (*RecipeExtractor)(nil)

// RecipeExtractor is a mock implementation of reciparse.RecipeExtractor.
type RecipeExtractor struct {
	RunFn     func(ctx context.Context, src *reciparse.Source) (*reciparse.Recipe, error)
	ProcessFn func(ctx context.Context, raw []byte, media reciparse.MediaType) (*reciparse.Recipe, error)
}

func (e *RecipeExtractor) Run(ctx context.Context, src *reciparse.Source) (*reciparse.Recipe, error) {
	return e.RunFn(ctx, src)
}

func (e *RecipeExtractor) Process(ctx context.Context, raw []byte, media reciparse.MediaType) (*reciparse.Recipe, error) {
	return e.ProcessFn(ctx, raw, media)
}
