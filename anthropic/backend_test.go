package anthropic_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/reciparse"
	"github.com/fwojciec/reciparse/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textRequest(t *testing.T, text string) *reciparse.ExtractionRequest {
	t.Helper()
	p, err := reciparse.Encode([]byte(text), reciparse.MediaText)
	require.NoError(t, err)
	return reciparse.NewExtractionRequest("Extract recipes.", p)
}

func toolUseResponse(name, input string) string {
	return `{"id":"msg_1","type":"message","role":"assistant","model":"test-model","content":[` +
		`{"type":"text","text":"Here you go."},` +
		`{"type":"tool_use","id":"toolu_1","name":"` + name + `","input":` + input + `}],` +
		`"stop_reason":"tool_use","usage":{"input_tokens":10,"output_tokens":5}}`
}

// recordingServer answers every request with response and keeps the last
// request body and headers.
type recordingServer struct {
	*httptest.Server
	body    map[string]any
	headers http.Header
}

func newRecordingServer(t *testing.T, response string) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		rs.headers = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &rs.body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) backend(opts ...anthropic.Option) *anthropic.Backend {
	opts = append([]anthropic.Option{
		anthropic.WithBaseURL(rs.URL),
		anthropic.WithHTTPClient(rs.Client()),
	}, opts...)
	return anthropic.NewBackend("sk-test", opts...)
}

func (rs *recordingServer) firstBlock(t *testing.T) map[string]any {
	t.Helper()
	messages, ok := rs.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	message := messages[0].(map[string]any)
	assert.Equal(t, "user", message["role"])
	content, ok := message["content"].([]any)
	require.True(t, ok)
	require.Len(t, content, 1)
	return content[0].(map[string]any)
}

func TestBackend_Extract(t *testing.T) {
	t.Parallel()

	t.Run("forces the recipe tool and returns its input", func(t *testing.T) {
		t.Parallel()

		rs := newRecordingServer(t, toolUseResponse("recipe_parser", `{"title":"Pancakes"}`))

		call, err := rs.backend(anthropic.WithModel("test-model")).Extract(context.Background(), textRequest(t, "2 eggs, 1 cup milk"))

		require.NoError(t, err)
		assert.Equal(t, reciparse.ToolName, call.Name)
		assert.JSONEq(t, `{"title":"Pancakes"}`, string(call.Input))

		assert.Equal(t, "sk-test", rs.headers.Get("X-Api-Key"))
		assert.NotEmpty(t, rs.headers.Get("Anthropic-Version"))

		assert.Equal(t, "test-model", rs.body["model"])
		assert.EqualValues(t, anthropic.DefaultMaxTokens, rs.body["max_tokens"])

		system := rs.body["system"].([]any)
		require.Len(t, system, 1)
		assert.Equal(t, "Extract recipes.", system[0].(map[string]any)["text"])

		choice := rs.body["tool_choice"].(map[string]any)
		assert.Equal(t, "tool", choice["type"])
		assert.Equal(t, "recipe_parser", choice["name"])

		block := rs.firstBlock(t)
		assert.Equal(t, "text", block["type"])
		assert.Equal(t, "2 eggs, 1 cup milk", block["text"])

		tools := rs.body["tools"].([]any)
		require.Len(t, tools, 1)
		tool := tools[0].(map[string]any)
		assert.Equal(t, reciparse.ToolName, tool["name"])
		assert.Equal(t, reciparse.ToolDescription, tool["description"])
		schema := tool["input_schema"].(map[string]any)
		assert.Equal(t, "object", schema["type"])
		assert.Contains(t, schema["properties"], "ingredients")
		assert.Contains(t, schema["required"], "servings")
		assert.Equal(t, "Recipe", schema["title"])
	})

	t.Run("sends the configured token budget", func(t *testing.T) {
		t.Parallel()

		rs := newRecordingServer(t, toolUseResponse("recipe_parser", `{}`))

		_, err := rs.backend(anthropic.WithMaxTokens(1024)).Extract(context.Background(), textRequest(t, "soup"))

		require.NoError(t, err)
		assert.EqualValues(t, 1024, rs.body["max_tokens"])
	})

	t.Run("images are sent as base64 image blocks", func(t *testing.T) {
		t.Parallel()

		rs := newRecordingServer(t, toolUseResponse("recipe_parser", `{}`))
		p, err := reciparse.Encode([]byte{0x89, 'P', 'N', 'G'}, reciparse.MediaPNG)
		require.NoError(t, err)

		_, err = rs.backend().Extract(context.Background(), reciparse.NewExtractionRequest("x", p))

		require.NoError(t, err)
		block := rs.firstBlock(t)
		assert.Equal(t, "image", block["type"])
		source := block["source"].(map[string]any)
		assert.Equal(t, "base64", source["type"])
		assert.Equal(t, "image/png", source["media_type"])
		assert.Equal(t, p.Text(), source["data"])
	})

	t.Run("PDFs are sent as document blocks", func(t *testing.T) {
		t.Parallel()

		rs := newRecordingServer(t, toolUseResponse("recipe_parser", `{}`))
		p, err := reciparse.Encode([]byte("%PDF-1.4"), reciparse.MediaPDF)
		require.NoError(t, err)

		_, err = rs.backend().Extract(context.Background(), reciparse.NewExtractionRequest("x", p))

		require.NoError(t, err)
		block := rs.firstBlock(t)
		assert.Equal(t, "document", block["type"])
		source := block["source"].(map[string]any)
		assert.Equal(t, "base64", source["type"])
		assert.Equal(t, "application/pdf", source["media_type"])
		assert.Equal(t, p.Text(), source["data"])
	})

	t.Run("non-2xx status is an extraction error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
		}))
		defer server.Close()

		b := anthropic.NewBackend("sk-test", anthropic.WithBaseURL(server.URL), anthropic.WithHTTPClient(server.Client()))

		_, err := b.Extract(context.Background(), textRequest(t, "soup"))

		var xe *reciparse.ExtractionError
		require.ErrorAs(t, err, &xe)
		assert.Equal(t, http.StatusTooManyRequests, xe.Status)
		assert.Contains(t, err.Error(), "slow down")
		assert.Equal(t, reciparse.StageExtract, reciparse.ErrorStage(err))
	})

	t.Run("response without tool use is an extraction error", func(t *testing.T) {
		t.Parallel()

		rs := newRecordingServer(t, `{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"no recipe here"}],"stop_reason":"end_turn"}`)

		_, err := rs.backend().Extract(context.Background(), textRequest(t, "soup"))

		var xe *reciparse.ExtractionError
		require.ErrorAs(t, err, &xe)
		assert.Contains(t, xe.Reason, "no tool call")
		assert.Contains(t, xe.Reason, "end_turn")
	})

	t.Run("wrong tool name is an extraction error", func(t *testing.T) {
		t.Parallel()

		rs := newRecordingServer(t, toolUseResponse("something_else", `{}`))

		_, err := rs.backend().Extract(context.Background(), textRequest(t, "soup"))

		var xe *reciparse.ExtractionError
		require.ErrorAs(t, err, &xe)
		assert.Contains(t, xe.Reason, "something_else")
	})

	t.Run("missing payload fails without a request", func(t *testing.T) {
		t.Parallel()

		_, err := anthropic.NewBackend("sk-test").Extract(context.Background(), &reciparse.ExtractionRequest{ToolName: reciparse.ToolName})

		var xe *reciparse.ExtractionError
		require.ErrorAs(t, err, &xe)
		assert.Equal(t, "request has no payload", xe.Reason)
	})

	t.Run("missing API key fails without a request", func(t *testing.T) {
		t.Parallel()

		_, err := anthropic.NewBackend("").Extract(context.Background(), textRequest(t, "soup"))

		var xe *reciparse.ExtractionError
		require.ErrorAs(t, err, &xe)
		assert.Contains(t, xe.Reason, "ANTHROPIC_API_KEY")
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		b := anthropic.NewBackend("sk-test", anthropic.WithBaseURL(server.URL), anthropic.WithHTTPClient(server.Client()))
		_, err := b.Extract(ctx, textRequest(t, "soup"))

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBackend_BuildParams(t *testing.T) {
	t.Parallel()

	t.Run("omits the system prompt when there are no instructions", func(t *testing.T) {
		t.Parallel()

		p, err := reciparse.Encode([]byte("soup"), reciparse.MediaText)
		require.NoError(t, err)

		params, err := anthropic.NewBackend("k").BuildParams(reciparse.NewExtractionRequest("", p))

		require.NoError(t, err)
		assert.Empty(t, params.System)
		assert.EqualValues(t, anthropic.DefaultMaxTokens, params.MaxTokens)
		require.Len(t, params.Tools, 1)
		assert.Equal(t, reciparse.ToolName, params.Tools[0].OfTool.Name)
		assert.Equal(t, reciparse.ToolName, params.ToolChoice.OfTool.Name)
	})

	t.Run("rejects a schema that is not an object", func(t *testing.T) {
		t.Parallel()

		p, err := reciparse.Encode([]byte("soup"), reciparse.MediaText)
		require.NoError(t, err)
		req := reciparse.NewExtractionRequest("x", p)
		req.Schema = json.RawMessage(`[1]`)

		_, err = anthropic.NewBackend("k").BuildParams(req)

		var xe *reciparse.ExtractionError
		require.ErrorAs(t, err, &xe)
	})
}
