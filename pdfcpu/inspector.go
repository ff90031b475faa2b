// Package pdfcpu inspects PDF sources with pdfcpu before they are sent to
// an extraction backend.
package pdfcpu

import (
	"bytes"
	"fmt"

	"github.com/fwojciec/reciparse"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Ensure Inspector implements reciparse.DocumentInspector at compile time.
var _ reciparse.DocumentInspector = (*Inspector)(nil)

// Inspector parses and validates PDFs in relaxed mode, which accepts the
// minor PDF format deviations common in scanned cookbooks.
type Inspector struct {
	conf *model.Configuration
}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{conf: conf}
}

// Inspect returns the page count of a PDF. A document pdfcpu cannot read
// is an EncodingError.
func (i *Inspector) Inspect(raw []byte) (*reciparse.DocumentInfo, error) {
	if len(raw) == 0 {
		return nil, &reciparse.EncodingError{Media: reciparse.MediaPDF, Err: fmt.Errorf("empty document")}
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw), i.conf)
	if err != nil {
		return nil, &reciparse.EncodingError{Media: reciparse.MediaPDF, Err: fmt.Errorf("pdfcpu read: %w", err)}
	}

	return &reciparse.DocumentInfo{Pages: ctx.PageCount}, nil
}
