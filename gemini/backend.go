// Package gemini implements reciparse.Backend with Google Gemini function
// calling.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/reciparse"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Backend implements reciparse.Backend at compile time.
var _ reciparse.Backend = (*Backend)(nil)

// Backend calls GenerateContent with a single function declaration and a
// function-calling mode that forces the model to call it.
type Backend struct {
	client *genai.Client
	model  string
}

// NewBackend creates a new Backend. An empty model selects DefaultModel.
func NewBackend(client *genai.Client, model string) *Backend {
	if model == "" {
		model = DefaultModel
	}
	return &Backend{client: client, model: model}
}

// Extract sends req and returns the function call made by the model.
func (b *Backend) Extract(ctx context.Context, req *reciparse.ExtractionRequest) (*reciparse.ToolCall, error) {
	if b.client == nil {
		return nil, &reciparse.ExtractionError{Reason: "gemini client not configured"}
	}

	contents, err := BuildContents(req)
	if err != nil {
		return nil, err
	}

	result, err := b.client.Models.GenerateContent(ctx, b.model, contents, BuildConfig(req))
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &reciparse.ExtractionError{Reason: apiErr.Message, Status: apiErr.Code, Err: err}
		}
		return nil, &reciparse.ExtractionError{Reason: "request failed", Err: err}
	}
	if result == nil {
		return nil, &reciparse.ExtractionError{Reason: "gemini returned nil result"}
	}

	for _, call := range result.FunctionCalls() {
		if call.Name != req.ToolName {
			return nil, &reciparse.ExtractionError{Reason: fmt.Sprintf("unexpected function %q", call.Name)}
		}
		input, err := json.Marshal(call.Args)
		if err != nil {
			return nil, &reciparse.ExtractionError{Reason: "encoding function arguments", Err: err}
		}
		return &reciparse.ToolCall{Name: call.Name, Input: input}, nil
	}
	return nil, &reciparse.ExtractionError{Reason: "no function call in response"}
}

// BuildConfig returns the GenerateContentConfig for an extraction: the
// instructions as system prompt and the recipe tool as the only callable
// function.
func BuildConfig(req *reciparse.ExtractionRequest) *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.Instructions}},
		},
		Temperature: &temp,
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:                 req.ToolName,
				Description:          req.ToolDescription,
				ParametersJsonSchema: req.Schema,
			}},
		}},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: []string{req.ToolName},
			},
		},
	}
}

// BuildContents returns the single user turn carrying the payload: text
// inline, everything else as an inline blob.
func BuildContents(req *reciparse.ExtractionRequest) ([]*genai.Content, error) {
	if req.Payload == nil {
		return nil, &reciparse.ExtractionError{Reason: "request has no payload"}
	}

	var part *genai.Part
	if req.Payload.Encoding() == reciparse.EncodingRawText {
		part = genai.NewPartFromText(req.Payload.Text())
	} else {
		data, err := req.Payload.Decode()
		if err != nil {
			return nil, &reciparse.ExtractionError{Reason: "decoding payload", Err: err}
		}
		part = genai.NewPartFromBytes(data, string(req.Payload.Media()))
	}

	return []*genai.Content{genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser)}, nil
}
