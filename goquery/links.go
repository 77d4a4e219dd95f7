// Package goquery provides HTML link extraction using PuerkitoBio/goquery.
// It backs the homepage-scrape fallback of the sitemap discovery strategy.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/urlwatch"
)

// Ensure Extractor implements urlwatch.LinkExtractor at compile time.
var _ urlwatch.LinkExtractor = (*Extractor)(nil)

// Extractor extracts same-host hyperlinks from HTML documents.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractLinks returns absolute same-host URLs from every anchor in html,
// in document order, deduplicated preserving first occurrence.
// Site-relative hrefs are resolved against baseURL; links to other hosts
// and non-HTTP schemes are dropped.
func (e *Extractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, urlwatch.Errorf(urlwatch.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, urlwatch.Errorf(urlwatch.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}

		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}

		if !isSameHost(base, resolved) {
			return
		}

		if !seen[resolved] {
			seen[resolved] = true
			links = append(links, resolved)
		}
	})

	return links, nil
}

// isNonHTTPLink reports whether href uses a scheme that cannot name a page.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(href, "#")
}

// resolveURL resolves href against base and strips any fragment.
// Returns the empty string if href does not parse.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

// isSameHost reports whether rawURL points at the same host as base.
func isSameHost(base *url.URL, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Hostname() == base.Hostname()
}
