package reciparse

// MaxPDFPages is the largest PDF accepted for extraction.
const MaxPDFPages = 100

// DocumentInfo describes a binary document.
type DocumentInfo struct {
	Pages int
}

// DocumentInspector checks a binary document before it is sent to a backend.
type DocumentInspector interface {
	Inspect(raw []byte) (*DocumentInfo, error)
}
