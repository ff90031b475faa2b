// Package pipeline wires the extraction stages together: fetch, text
// extraction, encoding, the backend call and validation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/reciparse"
)

// Ensure Pipeline implements reciparse.RecipeExtractor at compile time.
var _ reciparse.RecipeExtractor = (*Pipeline)(nil)

// DefaultExtractTimeout bounds a single backend call.
const DefaultExtractTimeout = 2 * time.Minute

// Pipeline turns one source into one validated recipe. Stages run
// sequentially and none is retried. A Pipeline holds no per-run state and
// may be shared by concurrent runs when its dependencies are safe for
// concurrent use.
type Pipeline struct {
	// Network fetches http(s) sources; Local reads filesystem paths.
	Network reciparse.Fetcher
	Local   reciparse.Fetcher

	// Text strips markup from text sources. When nil, text is passed through.
	Text reciparse.TextExtractor

	// Inspector checks PDFs before they are sent. Optional.
	Inspector reciparse.DocumentInspector

	Backend   reciparse.Backend
	Validator *reciparse.Validator

	// Instructions is the system prompt. Defaults to reciparse.DefaultInstructions.
	Instructions string

	// ExtractTimeout bounds the backend call. Defaults to DefaultExtractTimeout.
	ExtractTimeout time.Duration

	Logger *slog.Logger
}

// Run fetches and extracts a classified source.
func (p *Pipeline) Run(ctx context.Context, src *reciparse.Source) (*reciparse.Recipe, error) {
	logger := p.logger().With("source", src.Ref)
	if src.Defaulted {
		logger.Warn("unrecognized extension, treating source as text", "media", src.Media)
	}

	fetcher := p.Local
	if src.Kind == reciparse.SourceNetwork {
		fetcher = p.Network
	}
	if fetcher == nil {
		return nil, reciparse.Errorf(reciparse.EINTERNAL, "no fetcher configured for %s sources", src.Kind)
	}

	raw, err := fetcher.Fetch(ctx, src.Ref)
	if err != nil {
		return nil, err
	}
	logger.Debug("source fetched", "kind", src.Kind, "media", src.Media, "bytes", len(raw))

	return p.process(ctx, logger, raw, src.Media)
}

// Process extracts a recipe from content that has already been read,
// such as an upload.
func (p *Pipeline) Process(ctx context.Context, raw []byte, media reciparse.MediaType) (*reciparse.Recipe, error) {
	return p.process(ctx, p.logger(), raw, media)
}

func (p *Pipeline) process(ctx context.Context, logger *slog.Logger, raw []byte, media reciparse.MediaType) (*reciparse.Recipe, error) {
	if p.Backend == nil {
		return nil, reciparse.Errorf(reciparse.EINTERNAL, "no extraction backend configured")
	}

	payload, err := p.encode(logger, raw, media)
	if err != nil {
		return nil, err
	}

	timeout := p.ExtractTimeout
	if timeout <= 0 {
		timeout = DefaultExtractTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	instructions := p.Instructions
	if instructions == "" {
		instructions = reciparse.DefaultInstructions
	}

	call, err := p.Backend.Extract(ctx, reciparse.NewExtractionRequest(instructions, payload))
	if err != nil {
		var xe *reciparse.ExtractionError
		if !errors.As(err, &xe) {
			err = &reciparse.ExtractionError{Reason: "backend call failed", Err: err}
		}
		return nil, err
	}

	validator := p.Validator
	if validator == nil {
		validator = reciparse.NewValidator()
	}
	return validator.Validate(call)
}

// encode normalizes raw bytes into the payload sent to the backend.
func (p *Pipeline) encode(logger *slog.Logger, raw []byte, media reciparse.MediaType) (*reciparse.Payload, error) {
	switch {
	case media == reciparse.MediaText:
		text, err := reciparse.DecodeText(raw)
		if err != nil {
			return nil, err
		}
		if p.Text != nil {
			if text, err = p.Text.ExtractText(text); err != nil {
				return nil, &reciparse.EncodingError{Media: media, Err: err}
			}
		}
		if strings.TrimSpace(text) == "" {
			return nil, &reciparse.EncodingError{Media: media, Err: errors.New("source has no text content")}
		}
		return reciparse.Encode([]byte(text), media)

	case media == reciparse.MediaPDF && p.Inspector != nil:
		info, err := p.Inspector.Inspect(raw)
		if err != nil {
			var ee *reciparse.EncodingError
			if !errors.As(err, &ee) {
				err = &reciparse.EncodingError{Media: media, Err: err}
			}
			return nil, err
		}
		if info.Pages > reciparse.MaxPDFPages {
			return nil, &reciparse.EncodingError{
				Media: media,
				Err:   fmt.Errorf("PDF has %d pages, at most %d are supported", info.Pages, reciparse.MaxPDFPages),
			}
		}
		logger.Debug("pdf inspected", "pages", info.Pages)

	case media.IsImage():
		if sniffed := http.DetectContentType(raw); sniffed != string(media) {
			logger.Warn("image content does not match its extension", "media", media, "detected", sniffed)
		}
	}

	return reciparse.Encode(raw, media)
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
