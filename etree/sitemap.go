// Package etree provides the XML sitemap parser built on beevik/etree.
package etree

import (
	"context"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/urlwatch"
)

// Ensure Parser implements urlwatch.SitemapParser at compile time.
var _ urlwatch.SitemapParser = (*Parser)(nil)

// Parser extracts URLs from XML sitemap documents fetched through an
// urlwatch.Fetcher. It never fetches child sitemaps itself; resolving a
// sitemapindex is the caller's decision (see ParseIndex).
type Parser struct {
	fetcher urlwatch.Fetcher
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser that fetches documents via fetcher.
func NewParser(fetcher urlwatch.Fetcher, opts ...Option) *Parser {
	p := &Parser{
		fetcher: fetcher,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns every <loc> in the document in document order, whether the
// document is a urlset or a sitemapindex, deduplicated preserving
// first-seen order.
func (p *Parser) Parse(ctx context.Context, sitemapURL string) ([]string, error) {
	root, err := p.load(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, loc := range root.FindElements("//loc") {
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}
	urls = dedupe(urls)

	p.logger.Debug("parsed sitemap", "url", sitemapURL, "count", len(urls))
	return urls, nil
}

// ParseRecent returns <url> entry locations whose <lastmod> falls within w.
// Entries without a <lastmod>, or with one that does not parse, are
// excluded rather than failing the parse. A sitemapindex has no <url>
// entries and therefore yields nothing in this mode.
func (p *Parser) ParseRecent(ctx context.Context, sitemapURL string, w urlwatch.Window) ([]string, error) {
	root, err := p.load(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	var urls []string
	total := 0
	for _, entry := range root.SelectElements("url") {
		total++

		loc := entry.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u == "" {
			continue
		}

		lastmod := entry.SelectElement("lastmod")
		if lastmod == nil {
			continue
		}
		t, err := urlwatch.ParseLastMod(lastmod.Text())
		if err != nil {
			p.logger.Debug("skipping entry with unparsable lastmod",
				"url", u, "lastmod", strings.TrimSpace(lastmod.Text()))
			continue
		}

		if w.Contains(t) {
			urls = append(urls, u)
		}
	}
	urls = dedupe(urls)

	p.logger.Debug("parsed sitemap with recency filter",
		"url", sitemapURL, "entries", total, "in_window", len(urls))
	return urls, nil
}

// ParseIndex reports whether the document is a sitemapindex. For an index
// it returns the child sitemap locations; for a urlset it returns the page
// locations with index=false.
func (p *Parser) ParseIndex(ctx context.Context, sitemapURL string) ([]string, bool, error) {
	root, err := p.load(ctx, sitemapURL)
	if err != nil {
		return nil, false, err
	}

	if root.Tag == "sitemapindex" {
		var children []string
		for _, sm := range root.SelectElements("sitemap") {
			loc := sm.SelectElement("loc")
			if loc == nil {
				continue
			}
			if u := strings.TrimSpace(loc.Text()); u != "" {
				children = append(children, u)
			}
		}
		return dedupe(children), true, nil
	}

	var urls []string
	for _, entry := range root.SelectElements("url") {
		loc := entry.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}
	return dedupe(urls), false, nil
}

// load fetches the document and returns the XML root element.
func (p *Parser) load(ctx context.Context, sitemapURL string) (*etree.Element, error) {
	body, err := p.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, urlwatch.Errorf(urlwatch.EINVALID, "parsing sitemap XML from %s: %v", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, urlwatch.Errorf(urlwatch.EINVALID, "empty sitemap XML from %s", sitemapURL)
	}
	return root, nil
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
