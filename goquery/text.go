// Package goquery extracts the visible text of HTML documents using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/reciparse"
	"golang.org/x/net/html"
)

// Ensure TextExtractor implements reciparse.TextExtractor at compile time.
var _ reciparse.TextExtractor = (*TextExtractor)(nil)

// skipped elements never contribute visible text.
var skipped = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"template": true, "iframe": true, "svg": true, "object": true,
}

// blockElements start and end on their own line.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "details": true, "dialog": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true,
	"tbody": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"tr": true, "ul": true, "body": true, "html": true,
}

// structuredDataSelector matches schema.org JSON-LD blocks.
const structuredDataSelector = `script[type="application/ld+json"]`

// TextExtractor returns the visible text of an HTML document in document
// order. Recipe pages often publish their recipe as schema.org JSON-LD in
// a script element; such blocks are appended after the visible text.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText strips markup from text. Input that is not markup is
// returned unchanged.
func (e *TextExtractor) ExtractText(text string) (string, error) {
	if !reciparse.LooksLikeMarkup(text) {
		return text, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return "", reciparse.Errorf(reciparse.EINVALID, "failed to parse HTML: %v", err)
	}

	var structured []string
	doc.Find(structuredDataSelector).Each(func(_ int, s *goquery.Selection) {
		if data := strings.TrimSpace(s.Text()); strings.Contains(data, `"Recipe"`) {
			structured = append(structured, data)
		}
	})

	var b strings.Builder
	writeVisible(&b, doc.Selection)
	out := collapseLines(b.String())

	if len(structured) > 0 {
		out += "\n\nStructured data:\n" + strings.Join(structured, "\n")
	}
	return out, nil
}

// lineBreaks normalizes source line breaks. Text nodes keep their line
// structure so Markdown bodies with inline tags survive extraction.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func writeVisible(b *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		n := c.Get(0)
		switch n.Type {
		case html.TextNode:
			lineBreaks.WriteString(b, n.Data)
		case html.ElementNode:
			if skipped[n.Data] {
				return
			}
			if n.Data == "br" {
				b.WriteByte('\n')
				return
			}
			block := blockElements[n.Data]
			if block {
				b.WriteByte('\n')
			}
			writeVisible(b, c)
			if block {
				b.WriteByte('\n')
			}
		}
	})
}

// collapseLines squeezes runs of whitespace inside each line and drops
// empty lines.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
