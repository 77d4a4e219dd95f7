package urlwatch

import "context"

// Fetcher retrieves document bodies from URLs.
// Implementations are expected to retry transient failures internally and
// to send a fixed User-Agent with every request.
type Fetcher interface {
	// Fetch retrieves the body of the given URL.
	// The context controls timeout and cancellation across retries.
	// Returns an EUNAVAILABLE error once all attempts are exhausted.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases underlying connection resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
