package mock

import "github.com/fwojciec/reciparse"

var _ reciparse.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of reciparse.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(text string) (string, error)
}

func (e *TextExtractor) ExtractText(text string) (string, error) {
	return e.ExtractTextFn(text)
}
