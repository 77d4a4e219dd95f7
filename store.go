package urlwatch

import (
	"strings"
	"time"
)

// StoreStats summarizes a source's persisted store.
type StoreStats struct {
	TotalURLs   int       `json:"total_urls"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// URLStore is the durable, append-only record of every URL ever discovered
// for one source. It is the single source of truth for "seen" status;
// discovery strategies hold no memory of past runs.
type URLStore interface {
	// Admit returns the candidates not previously recorded, in their
	// original first-occurrence order, appends them and persists
	// immediately. Repeats within one batch collapse to the first mention.
	// No write occurs when nothing is new. Write failures return an
	// EINTERNAL error: a store that cannot persist must not silently
	// report false deduplication.
	Admit(candidates []string) ([]string, error)

	// Stats returns the store's totals and timestamps.
	Stats() StoreStats
}

// NormalizeURL canonicalizes a URL for storage and comparison: surrounding
// whitespace is trimmed and a single trailing slash is stripped. Returns
// the empty string for blank input.
//
// Both the stored values and the "seen" comparison use the normalized form.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	u = strings.TrimSuffix(u, "/")
	return u
}
