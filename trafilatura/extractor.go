// Package trafilatura isolates the main content of article-style pages
// before taking their text.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/reciparse"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure TextExtractor implements reciparse.TextExtractor at compile time.
var _ reciparse.TextExtractor = (*TextExtractor)(nil)

// TextExtractor wraps go-trafilatura. Navigation, sidebars, comments and
// footers are dropped and the text of the main content node is returned,
// preceded by the page title when one is found. Pages where no main
// content can be isolated fall back to the text of the whole document.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText returns the main-content text of an HTML document. Input
// that is not markup is returned unchanged.
func (e *TextExtractor) ExtractText(text string) (string, error) {
	if !reciparse.LooksLikeMarkup(text) {
		return text, nil
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(text), opts)
	if err == nil && result.ContentNode != nil {
		content := nodeText(result.ContentNode)
		if content != "" {
			if title := strings.TrimSpace(result.Metadata.Title); title != "" && !strings.HasPrefix(content, title) {
				content = title + "\n" + content
			}
			return content, nil
		}
	}

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return "", reciparse.Errorf(reciparse.EINVALID, "failed to parse HTML: %v", err)
	}
	return nodeText(doc), nil
}

var skipped = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true,
}

var blocks = map[string]bool{
	"article": true, "blockquote": true, "div": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "li": true, "main": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true, "dd": true, "dt": true,
}

// nodeText renders the visible text below n, one block per line.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipped[n.Data] {
				return
			}
			if n.Data == "br" {
				b.WriteByte('\n')
				return
			}
		}
		block := n.Type == html.ElementNode && blocks[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(n)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
