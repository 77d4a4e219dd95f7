package urlwatch

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Entry is a single <url> entry parsed from a urlset sitemap.
// LastMod is zero when the entry carried no (or an unparsable) <lastmod>.
type Entry struct {
	Loc     string
	LastMod time.Time
}

// SitemapParser extracts URLs from XML sitemaps.
//
// Two modes exist deliberately. Parse is flat: it returns every <loc> it
// finds whether the document is a urlset or a sitemapindex, and never
// fetches child sitemaps. ParseRecent reads urlset entries only and applies
// a freshness window. Index resolution is the job of discovery strategies,
// via ParseIndex.
type SitemapParser interface {
	// Parse returns every <loc> in the document, in document order,
	// deduplicated preserving first-seen order.
	Parse(ctx context.Context, sitemapURL string) ([]string, error)

	// ParseRecent returns <url> entry locations whose <lastmod> falls
	// within w. Entries without a parsable <lastmod> are excluded.
	ParseRecent(ctx context.Context, sitemapURL string, w Window) ([]string, error)

	// ParseIndex reports whether the document is a sitemapindex and, if so,
	// returns the child sitemap locations. For a urlset it returns the
	// page locations with index=false.
	ParseIndex(ctx context.Context, sitemapURL string) (locs []string, index bool, err error)
}

// Window is a closed UTC time interval used for lastmod filtering.
type Window struct {
	Start time.Time
	End   time.Time
}

// LastDay returns the window from the start of yesterday (00:00 UTC) up to
// and including now.
func LastDay(now time.Time) Window {
	now = now.UTC()
	y := now.AddDate(0, 0, -1)
	return Window{
		Start: time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, time.UTC),
		End:   now,
	}
}

// Contains reports whether t lies within the closed interval [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

var (
	bareDateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	spacedOffsetRe = regexp.MustCompile(`\s+([+-]\d{2}:\d{2})$`)
	noSecondsRe    = regexp.MustCompile(`(\d{2}:\d{2})([+-]\d{2}:\d{2})$`)
)

// lastmodLayouts are tried in order after normalization. Layouts without a
// zone are interpreted as UTC.
var lastmodLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseLastMod parses a sitemap <lastmod> value. It tolerates the format
// drift seen in real sitemaps:
//
//	2026-01-15T16:01:00+00:00
//	2026-01-15T16:01:00Z
//	2026-01-15 16:01 +00:00   (space before the offset)
//	2026-01-15 16:01+00:00    (offset without seconds)
//	2026-01-15                (bare date, UTC midnight)
//
// Returns an EINVALID error for anything else.
func ParseLastMod(s string) (time.Time, error) {
	txt := strings.TrimSpace(s)
	txt = strings.Replace(txt, "Z", "+00:00", 1)
	txt = spacedOffsetRe.ReplaceAllString(txt, "$1")

	if bareDateRe.MatchString(txt) {
		t, err := time.Parse("2006-01-02", txt)
		if err != nil {
			return time.Time{}, Errorf(EINVALID, "invalid lastmod %q: %v", s, err)
		}
		return t.UTC(), nil
	}

	txt = noSecondsRe.ReplaceAllString(txt, "${1}:00${2}")

	for _, layout := range lastmodLayouts {
		t, err := time.ParseInLocation(layout, txt, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, Errorf(EINVALID, "invalid lastmod %q", s)
}
