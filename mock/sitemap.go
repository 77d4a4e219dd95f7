package mock

import (
	"context"

	"github.com/fwojciec/urlwatch"
)

var _ urlwatch.SitemapParser = (*SitemapParser)(nil)

// SitemapParser is a mock implementation of urlwatch.SitemapParser.
type SitemapParser struct {
	ParseFn       func(ctx context.Context, sitemapURL string) ([]string, error)
	ParseRecentFn func(ctx context.Context, sitemapURL string, w urlwatch.Window) ([]string, error)
	ParseIndexFn  func(ctx context.Context, sitemapURL string) ([]string, bool, error)
}

func (p *SitemapParser) Parse(ctx context.Context, sitemapURL string) ([]string, error) {
	return p.ParseFn(ctx, sitemapURL)
}

func (p *SitemapParser) ParseRecent(ctx context.Context, sitemapURL string, w urlwatch.Window) ([]string, error) {
	return p.ParseRecentFn(ctx, sitemapURL, w)
}

func (p *SitemapParser) ParseIndex(ctx context.Context, sitemapURL string) ([]string, bool, error) {
	return p.ParseIndexFn(ctx, sitemapURL)
}
