package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/reciparse"
)

// Ensure LoggingBackend implements reciparse.Backend.
var _ reciparse.Backend = (*LoggingBackend)(nil)

// LoggingBackend wraps a Backend with logging.
type LoggingBackend struct {
	next   reciparse.Backend
	name   string
	logger *slog.Logger
}

// NewLoggingBackend creates a new LoggingBackend. name identifies the
// backend in log records.
func NewLoggingBackend(next reciparse.Backend, name string, logger *slog.Logger) *LoggingBackend {
	return &LoggingBackend{next: next, name: name, logger: logger}
}

// Extract logs the call and delegates to the wrapped backend.
func (b *LoggingBackend) Extract(ctx context.Context, req *reciparse.ExtractionRequest) (call *reciparse.ToolCall, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"backend", b.name,
			"tool", req.ToolName,
			"duration", time.Since(begin),
			"err", err,
		}
		if req.Payload != nil {
			attrs = append(attrs, "media", req.Payload.Media(), "payload_bytes", len(req.Payload.Text()))
		}
		if call != nil {
			attrs = append(attrs, "input_bytes", len(call.Input))
		}
		b.logger.Info("extract", attrs...)
	}(time.Now())
	return b.next.Extract(ctx, req)
}
