package reciparse_test

import (
	"testing"

	"github.com/fwojciec/reciparse"
	"github.com/stretchr/testify/assert"
)

func TestLooksLikeMarkup(t *testing.T) {
	t.Parallel()

	assert.True(t, reciparse.LooksLikeMarkup("<html><body>Hi</body></html>"))
	assert.True(t, reciparse.LooksLikeMarkup("<p class=\"x\">Stir</p>"))
	assert.True(t, reciparse.LooksLikeMarkup("<!DOCTYPE html>"))
	assert.True(t, reciparse.LooksLikeMarkup("line<br/>break"))
	assert.False(t, reciparse.LooksLikeMarkup("Bake at < 200 degrees & rest"))
	assert.False(t, reciparse.LooksLikeMarkup("2 < 3 > 1"))
}
