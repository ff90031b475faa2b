package reciparse

import "regexp"

// TextExtractor turns markup into plain text for the extraction backend.
type TextExtractor interface {
	// ExtractText returns the visible text of a markup document in document
	// order. Input that is not markup is returned unchanged. Malformed markup
	// degrades to whatever text is recoverable instead of failing.
	ExtractText(text string) (string, error)
}

// markupPattern matches an HTML tag, comment or doctype opening.
var markupPattern = regexp.MustCompile(`<(?:[a-zA-Z][a-zA-Z0-9-]*(?:\s[^<>]*)?/?>|/[a-zA-Z][a-zA-Z0-9-]*\s*>|!--|![dD][oO][cC][tT][yY][pP][eE])`)

// LooksLikeMarkup reports whether text contains at least one HTML tag.
// Prose that merely mentions "<" or "&" is not markup.
func LooksLikeMarkup(text string) bool {
	return markupPattern.MatchString(text)
}
