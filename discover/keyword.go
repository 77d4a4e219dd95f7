// Package discover implements the per-source discovery policies. Each
// strategy composes the Fetcher and SitemapParser primitives into a policy
// and owns the network resources it was constructed with.
//
// Strategies never fail: internal errors are logged and degrade to a
// shorter (possibly empty) result, so one broken source cannot abort a
// batch run.
package discover

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/urlwatch"
)

// Ensure SitemapKeyword implements urlwatch.Discoverer at compile time.
var _ urlwatch.Discoverer = (*SitemapKeyword)(nil)

// SitemapKeyword discovers URLs from a single fixed sitemap, keeping only
// entries modified within the last day whose URL contains a keyword.
type SitemapKeyword struct {
	name       string
	sitemapURL string
	keyword    string
	fetcher    urlwatch.Fetcher
	parser     urlwatch.SitemapParser
	logger     *slog.Logger
	now        func() time.Time
}

// KeywordOption configures a SitemapKeyword strategy.
type KeywordOption func(*SitemapKeyword)

// WithKeywordLogger sets the strategy's logger.
func WithKeywordLogger(logger *slog.Logger) KeywordOption {
	return func(s *SitemapKeyword) {
		s.logger = logger
	}
}

// WithKeywordClock overrides the time source used to compute the lastmod
// window. This is useful for testing.
func WithKeywordClock(now func() time.Time) KeywordOption {
	return func(s *SitemapKeyword) {
		s.now = now
	}
}

// NewSitemapKeyword creates the strategy. The fetcher is owned by the
// strategy and released by Close; the parser is expected to fetch through
// the same fetcher.
func NewSitemapKeyword(name, sitemapURL, keyword string, fetcher urlwatch.Fetcher, parser urlwatch.SitemapParser, opts ...KeywordOption) *SitemapKeyword {
	s := &SitemapKeyword{
		name:       name,
		sitemapURL: sitemapURL,
		keyword:    strings.ToLower(keyword),
		fetcher:    fetcher,
		parser:     parser,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source identifier.
func (s *SitemapKeyword) Name() string {
	return s.name
}

// Discover parses the sitemap with the last-day lastmod window and keeps
// URLs containing the keyword (case-insensitive). Errors degrade to an
// empty result.
func (s *SitemapKeyword) Discover(ctx context.Context) []string {
	window := urlwatch.LastDay(s.now())

	urls, err := s.parser.ParseRecent(ctx, s.sitemapURL, window)
	if err != nil {
		s.logger.Error("sitemap parse failed", "source", s.name, "url", s.sitemapURL, "err", err)
		return nil
	}

	var filtered []string
	for _, u := range urls {
		if strings.Contains(strings.ToLower(u), s.keyword) {
			filtered = append(filtered, u)
		} else {
			s.logger.Debug("dropping URL without keyword", "source", s.name, "url", u, "keyword", s.keyword)
		}
	}

	s.logger.Info("sitemap keyword discovery complete",
		"source", s.name, "in_window", len(urls), "matched", len(filtered), "keyword", s.keyword)
	return filtered
}

// Close releases the fetcher's network resources.
func (s *SitemapKeyword) Close() error {
	return s.fetcher.Close()
}
