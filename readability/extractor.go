// Package readability strips page chrome with go-readability before
// taking the text of the article.
package readability

import (
	"strings"

	"github.com/fwojciec/reciparse"
	"github.com/go-shiori/go-readability"
)

// Ensure TextExtractor implements reciparse.TextExtractor at compile time.
var _ reciparse.TextExtractor = (*TextExtractor)(nil)

// TextExtractor wraps go-readability to return the article text of an
// HTML page, preceded by its title.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText returns the readable text of an HTML document. Input that
// is not markup is returned unchanged.
func (e *TextExtractor) ExtractText(text string) (string, error) {
	if !reciparse.LooksLikeMarkup(text) {
		return text, nil
	}

	article, err := readability.FromReader(strings.NewReader(text), nil)
	if err != nil {
		return "", reciparse.Errorf(reciparse.EINVALID, "no readable content: %v", err)
	}

	content := normalize(article.TextContent)
	if content == "" {
		return "", reciparse.Errorf(reciparse.EINVALID, "no readable content")
	}
	if title := strings.TrimSpace(article.Title); title != "" && !strings.HasPrefix(content, title) {
		content = title + "\n" + content
	}
	return content, nil
}

// normalize collapses runs of whitespace within lines and drops blank lines.
func normalize(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
