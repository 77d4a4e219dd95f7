package urlwatch

import "context"

// SourceKind selects the discovery policy for a source.
type SourceKind string

// The closed set of discovery policies. New sources are added by
// composition of these variants rather than by new fetch/retry code.
const (
	// KindSitemapKeyword parses a single fixed sitemap with the last-day
	// lastmod window and keeps only URLs containing a keyword.
	KindSitemapKeyword SourceKind = "sitemap_keyword"

	// KindSitemapFallback probes well-known sitemap paths at the site
	// root and falls back to homepage link scraping when none yields URLs.
	KindSitemapFallback SourceKind = "sitemap_fallback"
)

// Source describes one configured discovery target.
type Source struct {
	// Name identifies the source in reports, logs and the store filename.
	Name string `json:"name" mapstructure:"name"`

	// Kind selects the discovery policy.
	Kind SourceKind `json:"kind" mapstructure:"kind"`

	// Endpoint is the fixed sitemap URL for KindSitemapKeyword, or the
	// site root for KindSitemapFallback.
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// Keyword filters KindSitemapKeyword URLs (case-insensitive substring).
	Keyword string `json:"keyword,omitempty" mapstructure:"keyword"`

	// SitemapPaths overrides the probed paths for KindSitemapFallback.
	SitemapPaths []string `json:"sitemap_paths,omitempty" mapstructure:"sitemap_paths"`
}

// Validate returns an error if the source is not usable.
func (s *Source) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if s.Endpoint == "" {
		return Errorf(EINVALID, "source %q: endpoint required", s.Name)
	}
	switch s.Kind {
	case KindSitemapKeyword, KindSitemapFallback:
		return nil
	default:
		return Errorf(EINVALID, "source %q: unknown kind %q", s.Name, s.Kind)
	}
}

// Discoverer produces candidate URLs for one source.
//
// Discover never fails: all internal errors are logged and degrade to a
// shorter (possibly empty) result, so one broken source cannot abort a
// batch run.
type Discoverer interface {
	// Name returns the source identifier.
	Name() string

	// Discover returns candidate URLs in discovery order, deduplicated.
	Discover(ctx context.Context) []string

	// Close releases the network resources owned by the strategy.
	Close() error
}
