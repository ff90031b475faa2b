package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/reciparse"
	"github.com/fwojciec/reciparse/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure TextExtractor implements reciparse.TextExtractor at compile time.
var _ reciparse.TextExtractor = (*htmltomarkdown.TextExtractor)(nil)

func TestTextExtractor_ExtractText(t *testing.T) {
	t.Parallel()

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewTextExtractor().ExtractText(`<h1>Pancakes</h1><h2>Ingredients</h2>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Pancakes")
		assert.Contains(t, md, "## Ingredients")
	})

	t.Run("converts ingredient lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewTextExtractor().ExtractText(`<ul><li>2 eggs</li><li>1 cup milk</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- 2 eggs")
		assert.Contains(t, md, "- 1 cup milk")
	})

	t.Run("converts ordered steps", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewTextExtractor().ExtractText(`<ol><li>Whisk</li><li>Fry</li></ol>`)

		require.NoError(t, err)
		assert.Contains(t, md, "1. Whisk")
		assert.Contains(t, md, "2. Fry")
	})

	t.Run("converts nutrition tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Nutrient</th><th>Amount</th></tr></thead>
<tbody><tr><td>Energy</td><td>250 kcal</td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewTextExtractor().ExtractText(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Nutrient")
		assert.Contains(t, md, "250 kcal")
		assert.Contains(t, md, "|")
	})

	t.Run("drops scripts", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewTextExtractor().ExtractText(`<p>Stir.</p><script>track()</script>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Stir.")
		assert.NotContains(t, md, "track()")
	})

	t.Run("leaves prose unchanged", func(t *testing.T) {
		t.Parallel()

		prose := "Bake at < 200 degrees"

		md, err := htmltomarkdown.NewTextExtractor().ExtractText(prose)

		require.NoError(t, err)
		assert.Equal(t, prose, md)
	})
}
