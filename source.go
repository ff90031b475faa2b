package reciparse

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SourceKind tells whether a source is retrieved over the network or read from disk.
type SourceKind string

// SourceKind values.
const (
	SourceNetwork SourceKind = "network"
	SourceLocal   SourceKind = "local"
)

// MediaType is the logical content type of a source.
type MediaType string

// MediaType values. Every source resolves to exactly one of these.
const (
	MediaJPEG MediaType = "image/jpeg"
	MediaPNG  MediaType = "image/png"
	MediaWebP MediaType = "image/webp"
	MediaPDF  MediaType = "application/pdf"
	MediaText MediaType = "text/plain"
)

// MediaTypes lists all supported media types.
func MediaTypes() []MediaType {
	return []MediaType{MediaJPEG, MediaPNG, MediaWebP, MediaPDF, MediaText}
}

// ParseMediaType maps a MIME string (parameters ignored) to a MediaType.
// text/html and text/markdown are accepted as text.
func ParseMediaType(s string) (MediaType, bool) {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image/jpeg", "image/jpg":
		return MediaJPEG, true
	case "image/png":
		return MediaPNG, true
	case "image/webp":
		return MediaWebP, true
	case "application/pdf":
		return MediaPDF, true
	case "text/plain", "text/html", "text/markdown", "application/xhtml+xml":
		return MediaText, true
	}
	return "", false
}

// IsImage reports whether m is one of the image media types.
func (m MediaType) IsImage() bool {
	return m == MediaJPEG || m == MediaPNG || m == MediaWebP
}

// Source is a classified source reference.
type Source struct {
	// Ref is the reference exactly as given: a URL or a filesystem path.
	Ref   string
	Kind  SourceKind
	Media MediaType

	// Defaulted is set when the extension was missing or unrecognized and
	// the media type fell back to text/plain.
	Defaulted bool
}

// Validate returns an error if a local source does not exist on disk.
// Network sources are not contacted.
func (s *Source) Validate() error {
	if s.Ref == "" {
		return Errorf(EINVALID, "source required")
	}
	if s.Kind == SourceNetwork {
		return nil
	}
	if _, err := os.Stat(s.Ref); err != nil {
		if os.IsNotExist(err) {
			return Errorf(ENOTFOUND, "file %s does not exist", s.Ref)
		}
		return Errorf(EINVALID, "cannot access %s: %v", s.Ref, err)
	}
	return nil
}

// textSuffixes are extensions known to carry text or markup.
var textSuffixes = map[string]bool{
	"txt": true, "md": true, "markdown": true,
	"html": true, "htm": true, "xhtml": true,
}

// Classify determines the kind and media type of a source reference.
// It has no side effects; use Source.Validate to check local paths.
func Classify(ref string) *Source {
	src := &Source{Ref: ref, Kind: SourceLocal}

	name := filepath.Base(ref)
	if u, ok := parseHTTPURL(ref); ok {
		src.Kind = SourceNetwork
		name = path.Base(u.Path)
	}

	var suffix string
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		suffix = strings.ToLower(name[i+1:])
	}

	switch suffix {
	case "jpg", "jpeg":
		src.Media = MediaJPEG
	case "png":
		src.Media = MediaPNG
	case "webp":
		src.Media = MediaWebP
	case "pdf":
		src.Media = MediaPDF
	default:
		src.Media = MediaText
		src.Defaulted = !textSuffixes[suffix]
	}
	return src
}

// parseHTTPURL reports whether ref is an absolute http(s) URL with a host.
func parseHTTPURL(ref string) (*url.URL, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	return u, true
}
