package discover

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/urlwatch"
)

// DefaultSitemapPaths are the well-known sitemap locations probed in order
// at the site root.
func DefaultSitemapPaths() []string {
	return []string{
		"/sitemap.xml",
		"/sitemap_index.xml",
		"/post-sitemap.xml",
		"/page-sitemap.xml",
	}
}

// Ensure SitemapFallback implements urlwatch.Discoverer at compile time.
var _ urlwatch.Discoverer = (*SitemapFallback)(nil)

// SitemapFallback probes well-known sitemap paths at a site root; the first
// probe that fetches and yields at least one URL wins. A sitemapindex is
// resolved recursively (each child sitemap is parsed and the results
// unioned). Only when every probe yields nothing does the strategy fall
// back to scraping the homepage for same-host links — sitemap metadata is
// authoritative and cheaper to dedupe, so it always takes priority.
type SitemapFallback struct {
	name      string
	siteURL   string
	paths     []string
	fetcher   urlwatch.Fetcher
	parser    urlwatch.SitemapParser
	extractor urlwatch.LinkExtractor
	logger    *slog.Logger
}

// FallbackOption configures a SitemapFallback strategy.
type FallbackOption func(*SitemapFallback)

// WithFallbackLogger sets the strategy's logger.
func WithFallbackLogger(logger *slog.Logger) FallbackOption {
	return func(s *SitemapFallback) {
		s.logger = logger
	}
}

// WithSitemapPaths overrides the probed paths.
func WithSitemapPaths(paths []string) FallbackOption {
	return func(s *SitemapFallback) {
		if len(paths) > 0 {
			s.paths = paths
		}
	}
}

// NewSitemapFallback creates the strategy. The fetcher is owned by the
// strategy and released by Close.
func NewSitemapFallback(name, siteURL string, fetcher urlwatch.Fetcher, parser urlwatch.SitemapParser, extractor urlwatch.LinkExtractor, opts ...FallbackOption) *SitemapFallback {
	s := &SitemapFallback{
		name:      name,
		siteURL:   strings.TrimRight(siteURL, "/"),
		paths:     DefaultSitemapPaths(),
		fetcher:   fetcher,
		parser:    parser,
		extractor: extractor,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source identifier.
func (s *SitemapFallback) Name() string {
	return s.name
}

// Discover tries the sitemap probes first and scrapes the homepage only
// when none of them yielded a URL. Errors degrade to fewer results.
func (s *SitemapFallback) Discover(ctx context.Context) []string {
	urls := s.trySitemaps(ctx)
	if len(urls) > 0 {
		s.logger.Info("discovery complete via sitemap", "source", s.name, "count", len(urls))
		return urls
	}

	s.logger.Info("no sitemap yielded URLs, falling back to homepage scrape", "source", s.name)
	urls = s.scrapeHomepage(ctx)
	s.logger.Info("discovery complete via homepage", "source", s.name, "count", len(urls))
	return urls
}

func (s *SitemapFallback) trySitemaps(ctx context.Context) []string {
	for _, path := range s.paths {
		sitemapURL := s.siteURL + path
		s.logger.Debug("probing sitemap", "source", s.name, "url", sitemapURL)

		locs, index, err := s.parser.ParseIndex(ctx, sitemapURL)
		if err != nil {
			s.logger.Debug("sitemap not usable", "source", s.name, "url", sitemapURL, "err", err)
			continue
		}

		urls := locs
		if index {
			s.logger.Info("found sitemap index, fetching child sitemaps",
				"source", s.name, "url", sitemapURL, "children", len(locs))
			urls = s.resolveIndex(ctx, locs)
		}

		if len(urls) > 0 {
			s.logger.Info("found usable sitemap", "source", s.name, "url", sitemapURL, "count", len(urls))
			return urls
		}
	}

	s.logger.Info("no sitemaps found", "source", s.name)
	return nil
}

// resolveIndex flat-parses each child sitemap and unions the results,
// deduplicated preserving first-seen order. A failing child is skipped.
func (s *SitemapFallback) resolveIndex(ctx context.Context, children []string) []string {
	seen := make(map[string]bool)
	var urls []string

	for _, child := range children {
		childURLs, err := s.parser.Parse(ctx, child)
		if err != nil {
			s.logger.Error("child sitemap parse failed", "source", s.name, "url", child, "err", err)
			continue
		}
		for _, u := range childURLs {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}

	return urls
}

func (s *SitemapFallback) scrapeHomepage(ctx context.Context) []string {
	body, err := s.fetcher.Fetch(ctx, s.siteURL)
	if err != nil {
		s.logger.Error("homepage fetch failed", "source", s.name, "url", s.siteURL, "err", err)
		return nil
	}

	links, err := s.extractor.ExtractLinks(body, s.siteURL)
	if err != nil {
		s.logger.Error("homepage link extraction failed", "source", s.name, "url", s.siteURL, "err", err)
		return nil
	}

	return links
}

// Close releases the fetcher's network resources.
func (s *SitemapFallback) Close() error {
	return s.fetcher.Close()
}
