package mock

import "github.com/fwojciec/reciparse"

var _ reciparse.DocumentInspector = (*DocumentInspector)(nil)

// DocumentInspector is a mock implementation of reciparse.DocumentInspector.
type DocumentInspector struct {
	InspectFn func(raw []byte) (*reciparse.DocumentInfo, error)
}

func (i *DocumentInspector) Inspect(raw []byte) (*reciparse.DocumentInfo, error) {
	return i.InspectFn(raw)
}
