package reciparse

import (
	"context"
	"encoding/json"
)

// Tool declared to the extraction backend.
const (
	ToolName        = "recipe_parser"
	ToolDescription = "Parses a recipe from the message according to the provided schema."
)

// DefaultInstructions is the system prompt used when no prompt file is given.
const DefaultInstructions = `You extract cooking recipes from the content you are given.
Call the recipe_parser tool exactly once with every field you can find.
Keep ingredient names free of quantities and units, and use only the units
allowed by the schema. Keep the steps in the order of the source. Express all
durations as ISO 8601 durations such as PT1H30M. If the source names its
origin (a web page, a book or a magazine), fill in the source object.`

// ExtractionRequest is everything a backend needs for one extraction call.
type ExtractionRequest struct {
	Instructions    string
	Payload         *Payload
	Schema          json.RawMessage
	ToolName        string
	ToolDescription string
}

// NewExtractionRequest builds a request for the recipe tool.
func NewExtractionRequest(instructions string, payload *Payload) *ExtractionRequest {
	return &ExtractionRequest{
		Instructions:    instructions,
		Payload:         payload,
		Schema:          RecipeSchema(),
		ToolName:        ToolName,
		ToolDescription: ToolDescription,
	}
}

// ToolCall is the backend's structured answer: the declared tool's input.
type ToolCall struct {
	Name  string
	Input json.RawMessage
}

// Backend runs a schema-constrained extraction against a language model.
type Backend interface {
	// Extract sends one request that forces the model to call the declared
	// tool and returns that call. Failures are *ExtractionError.
	// Implementations never retry.
	Extract(ctx context.Context, req *ExtractionRequest) (*ToolCall, error)
}

// RecipeExtractor runs the whole extraction for one source.
type RecipeExtractor interface {
	// Run fetches a classified source and extracts its recipe.
	Run(ctx context.Context, src *Source) (*Recipe, error)

	// Process extracts a recipe from content already in memory.
	Process(ctx context.Context, raw []byte, media MediaType) (*Recipe, error)
}
