package reciparse

import "context"

// Fetcher retrieves the raw bytes of a source.
// Implementations exist for HTTP, browser-rendered pages and local files.
type Fetcher interface {
	// Fetch makes a single attempt to read ref and returns its content.
	// Failures are *FetchError. The context controls timeout and cancellation.
	Fetch(ctx context.Context, ref string) ([]byte, error)

	// Close releases resources held by the fetcher.
	Close() error
}
