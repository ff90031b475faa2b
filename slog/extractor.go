package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/reciparse"
)

// Ensure LoggingTextExtractor implements reciparse.TextExtractor.
var _ reciparse.TextExtractor = (*LoggingTextExtractor)(nil)

// LoggingTextExtractor wraps a TextExtractor with debug logging.
type LoggingTextExtractor struct {
	next   reciparse.TextExtractor
	logger *slog.Logger
}

// NewLoggingTextExtractor creates a new LoggingTextExtractor.
func NewLoggingTextExtractor(next reciparse.TextExtractor, logger *slog.Logger) *LoggingTextExtractor {
	return &LoggingTextExtractor{next: next, logger: logger}
}

// ExtractText logs input and output sizes and delegates to the wrapped extractor.
func (e *LoggingTextExtractor) ExtractText(text string) (out string, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract text",
			"markup", reciparse.LooksLikeMarkup(text),
			"in_bytes", len(text),
			"out_bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractText(text)
}
