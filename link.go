package urlwatch

// LinkExtractor extracts same-site hyperlinks from an HTML document.
// Used as the fallback discovery path when a site exposes no usable sitemap.
type LinkExtractor interface {
	// ExtractLinks parses html and returns absolute same-host URLs in
	// document order, deduplicated preserving first occurrence.
	// Site-relative hrefs are resolved against baseURL; links to other
	// hosts and non-HTTP schemes (mailto:, javascript:) are dropped.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
