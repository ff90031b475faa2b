// Package anthropic implements reciparse.Backend on the Anthropic Messages
// API using forced tool use.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fwojciec/reciparse"
)

// Defaults for the Messages API.
const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 8192
)

// Ensure Backend implements reciparse.Backend at compile time.
var _ reciparse.Backend = (*Backend)(nil)

// Backend sends one Messages request per extraction and returns the
// tool_use block the model was forced to produce.
type Backend struct {
	client    sdk.Client
	apiKey    string
	baseURL   string
	httpc     *http.Client
	model     string
	maxTokens int
}

// Option configures a Backend.
type Option func(*Backend)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(b *Backend) {
		b.baseURL = u
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(b *Backend) {
		b.model = model
	}
}

// WithMaxTokens sets the response token budget. Values below one keep
// DefaultMaxTokens.
func WithMaxTokens(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.maxTokens = n
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) {
		b.httpc = c
	}
}

// NewBackend creates a Backend authenticated with apiKey. Retries are left
// to the caller.
func NewBackend(apiKey string, opts ...Option) *Backend {
	b := &Backend{
		apiKey:    apiKey,
		httpc:     &http.Client{Timeout: 5 * time.Minute},
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(b)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(b.httpc),
		option.WithMaxRetries(0),
	}
	if b.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(b.baseURL))
	}
	b.client = sdk.NewClient(clientOpts...)
	return b
}

// BuildParams returns the Messages request for req: the instructions as
// system prompt, the payload as the single user turn and the recipe tool
// as the forced tool choice.
func (b *Backend) BuildParams(req *reciparse.ExtractionRequest) (sdk.MessageNewParams, error) {
	if req.Payload == nil {
		return sdk.MessageNewParams{}, &reciparse.ExtractionError{Reason: "request has no payload"}
	}

	var block sdk.ContentBlockParamUnion
	switch media := req.Payload.Media(); {
	case media == reciparse.MediaText:
		block = sdk.NewTextBlock(req.Payload.Text())
	case media.IsImage():
		block = sdk.NewImageBlockBase64(string(media), req.Payload.Text())
	case media == reciparse.MediaPDF:
		block = sdk.NewDocumentBlock(sdk.Base64PDFSourceParam{Data: req.Payload.Text()})
	default:
		return sdk.MessageNewParams{}, &reciparse.ExtractionError{Reason: fmt.Sprintf("unsupported media type %q", media)}
	}

	schema, err := inputSchema(req.Schema)
	if err != nil {
		return sdk.MessageNewParams{}, err
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(b.model),
		MaxTokens: int64(b.maxTokens),
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(block)},
		Tools: []sdk.ToolUnionParam{{OfTool: &sdk.ToolParam{
			Name:        req.ToolName,
			Description: sdk.String(req.ToolDescription),
			InputSchema: schema,
		}}},
		ToolChoice: sdk.ToolChoiceUnionParam{OfTool: &sdk.ToolChoiceToolParam{Name: req.ToolName}},
	}
	if req.Instructions != "" {
		params.System = []sdk.TextBlockParam{{Text: req.Instructions}}
	}
	return params, nil
}

// inputSchema splits a JSON Schema object into the SDK's tool schema:
// properties and required are typed fields, the rest rides along as
// extra fields.
func inputSchema(raw json.RawMessage) (sdk.ToolInputSchemaParam, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return sdk.ToolInputSchemaParam{}, &reciparse.ExtractionError{Reason: "tool schema is not a JSON object", Err: err}
	}

	schema := sdk.ToolInputSchemaParam{Properties: fields["properties"]}
	if names, ok := fields["required"].([]any); ok {
		for _, name := range names {
			if s, ok := name.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	extra := make(map[string]any)
	for k, v := range fields {
		switch k {
		case "type", "properties", "required":
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		schema.ExtraFields = extra
	}
	return schema, nil
}

// Extract sends req and returns the forced tool call.
func (b *Backend) Extract(ctx context.Context, req *reciparse.ExtractionRequest) (*reciparse.ToolCall, error) {
	if b.apiKey == "" {
		return nil, &reciparse.ExtractionError{Reason: "ANTHROPIC_API_KEY is empty"}
	}

	params, err := b.BuildParams(req)
	if err != nil {
		return nil, err
	}

	msg, err := b.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			return nil, &reciparse.ExtractionError{Reason: "messages request rejected", Status: apiErr.StatusCode, Err: err}
		}
		return nil, &reciparse.ExtractionError{Reason: "request failed", Err: err}
	}

	for _, block := range msg.Content {
		if block.Type != "tool_use" {
			continue
		}
		if block.Name != req.ToolName {
			return nil, &reciparse.ExtractionError{Reason: fmt.Sprintf("unexpected tool %q", block.Name)}
		}
		if !json.Valid(block.Input) {
			return nil, &reciparse.ExtractionError{Reason: "tool input is not valid JSON"}
		}
		return &reciparse.ToolCall{Name: block.Name, Input: block.Input}, nil
	}
	return nil, &reciparse.ExtractionError{Reason: fmt.Sprintf("no tool call in response (stop reason %q)", msg.StopReason)}
}
