package reciparse

import (
	"bytes"
	_ "embed"
	"encoding/json"
)

//go:embed recipe.schema.json
var recipeSchema []byte

// RecipeSchema returns the JSON Schema of the recipe tool input.
func RecipeSchema() json.RawMessage {
	return bytes.Clone(recipeSchema)
}
