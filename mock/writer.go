package mock

import (
	"context"

	"github.com/fwojciec/reciparse"
)

var _ reciparse.RecipeStore = (*RecipeStore)(nil)

// RecipeStore is a mock implementation of reciparse.RecipeStore.
type RecipeStore struct {
	SaveRecipeFn func(ctx context.Context, r *reciparse.Recipe) (string, error)
}

func (s *RecipeStore) SaveRecipe(ctx context.Context, r *reciparse.Recipe) (string, error) {
	return s.SaveRecipeFn(ctx, r)
}
