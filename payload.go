package reciparse

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Encoding describes how a payload carries its data.
type Encoding string

// Encoding values.
const (
	EncodingRawText Encoding = "raw-text"
	EncodingBase64  Encoding = "base64"
)

// Payload is the canonical content sent to an extraction backend.
// Text payloads hold UTF-8 text; every other media type holds base64.
// A Payload is immutable once built by Encode.
type Payload struct {
	media    MediaType
	encoding Encoding
	data     []byte
}

// Media returns the payload's media type.
func (p *Payload) Media() MediaType { return p.media }

// Encoding returns how Data is encoded.
func (p *Payload) Encoding() Encoding { return p.encoding }

// Data returns a copy of the encoded payload bytes.
func (p *Payload) Data() []byte { return bytes.Clone(p.data) }

// Text returns the payload data as a string: the text itself for raw-text
// payloads, the base64 string otherwise.
func (p *Payload) Text() string { return string(p.data) }

// Decode returns the original bytes the payload was built from.
func (p *Payload) Decode() ([]byte, error) {
	if p.encoding == EncodingRawText {
		return bytes.Clone(p.data), nil
	}
	return base64.StdEncoding.DecodeString(string(p.data))
}

// Encode builds a payload. For text/plain, raw must be the already
// extracted text and is carried verbatim; other media are base64-encoded.
func Encode(raw []byte, media MediaType) (*Payload, error) {
	switch media {
	case MediaText:
		if !utf8.Valid(raw) {
			return nil, &EncodingError{Media: media, Err: errors.New("text is not valid UTF-8")}
		}
		return &Payload{media: media, encoding: EncodingRawText, data: bytes.Clone(raw)}, nil
	case MediaJPEG, MediaPNG, MediaWebP, MediaPDF:
		buf := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
		base64.StdEncoding.Encode(buf, raw)
		return &Payload{media: media, encoding: EncodingBase64, data: buf}, nil
	default:
		return nil, &EncodingError{Media: media, Err: fmt.Errorf("unsupported media type %q", media)}
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText decodes raw bytes as UTF-8 text, dropping a leading byte order mark.
func DecodeText(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return "", &EncodingError{Media: MediaText, Err: errors.New("source is not valid UTF-8")}
	}
	return string(raw), nil
}
