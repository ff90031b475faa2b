// Package htmltomarkdown turns HTML sources into Markdown before extraction,
// keeping headings, lists and tables visible to the model.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/reciparse"
)

// Ensure TextExtractor implements reciparse.TextExtractor at compile time.
var _ reciparse.TextExtractor = (*TextExtractor)(nil)

// TextExtractor wraps html-to-markdown to convert HTML to Markdown.
type TextExtractor struct {
	conv *converter.Converter
}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &TextExtractor{conv: conv}
}

// ExtractText converts HTML content into Markdown. Input that is not
// markup is returned unchanged.
func (e *TextExtractor) ExtractText(text string) (string, error) {
	if !reciparse.LooksLikeMarkup(text) {
		return text, nil
	}

	result, err := e.conv.ConvertString(text)
	if err != nil {
		return "", reciparse.Errorf(reciparse.EINVALID, "failed to convert HTML: %v", err)
	}

	return strings.TrimSpace(result), nil
}
