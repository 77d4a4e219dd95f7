package discover_test

import (
	"context"
	"testing"

	"github.com/fwojciec/urlwatch"
	"github.com/fwojciec/urlwatch/discover"
	"github.com/fwojciec/urlwatch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unusedExtractor(t *testing.T) *mock.LinkExtractor {
	t.Helper()
	return &mock.LinkExtractor{
		ExtractLinksFn: func(html, baseURL string) ([]string, error) {
			t.Fatal("homepage scrape must not run when a sitemap yielded URLs")
			return nil, nil
		},
	}
}

func TestSitemapFallback_Discover(t *testing.T) {
	t.Parallel()

	t.Run("first probe with URLs wins, homepage never scraped", func(t *testing.T) {
		t.Parallel()

		var probed []string
		parser := &mock.SitemapParser{
			ParseIndexFn: func(ctx context.Context, sitemapURL string) ([]string, bool, error) {
				probed = append(probed, sitemapURL)
				if sitemapURL == "https://blog.example.com/sitemap.xml" {
					return []string{"https://blog.example.com/post-1"}, false, nil
				}
				return nil, false, urlwatch.Errorf(urlwatch.EUNAVAILABLE, "HTTP 404")
			},
		}

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				t.Fatal("strategy must not fetch directly when the probe succeeds")
				return "", nil
			},
			CloseFn: func() error { return nil },
		}

		strategy := discover.NewSitemapFallback(
			"blog", "https://blog.example.com/", fetcher, parser, unusedExtractor(t),
		)

		urls := strategy.Discover(context.Background())
		assert.Equal(t, []string{"https://blog.example.com/post-1"}, urls)
		assert.Equal(t, []string{"https://blog.example.com/sitemap.xml"}, probed)
	})

	t.Run("probes continue past unusable and empty sitemaps in order", func(t *testing.T) {
		t.Parallel()

		var probed []string
		parser := &mock.SitemapParser{
			ParseIndexFn: func(ctx context.Context, sitemapURL string) ([]string, bool, error) {
				probed = append(probed, sitemapURL)
				switch sitemapURL {
				case "https://blog.example.com/sitemap.xml":
					return nil, false, urlwatch.Errorf(urlwatch.EUNAVAILABLE, "HTTP 404")
				case "https://blog.example.com/sitemap_index.xml":
					return nil, false, nil // resolves but empty
				case "https://blog.example.com/post-sitemap.xml":
					return []string{"https://blog.example.com/post-9"}, false, nil
				}
				t.Fatalf("unexpected probe %s", sitemapURL)
				return nil, false, nil
			},
		}

		strategy := discover.NewSitemapFallback(
			"blog", "https://blog.example.com", &mock.Fetcher{CloseFn: func() error { return nil }},
			parser, unusedExtractor(t),
		)

		urls := strategy.Discover(context.Background())
		assert.Equal(t, []string{"https://blog.example.com/post-9"}, urls)
		assert.Equal(t, []string{
			"https://blog.example.com/sitemap.xml",
			"https://blog.example.com/sitemap_index.xml",
			"https://blog.example.com/post-sitemap.xml",
		}, probed)
	})

	t.Run("sitemap index resolves children and unions their URLs", func(t *testing.T) {
		t.Parallel()

		parser := &mock.SitemapParser{
			ParseIndexFn: func(ctx context.Context, sitemapURL string) ([]string, bool, error) {
				return []string{
					"https://blog.example.com/post-sitemap.xml",
					"https://blog.example.com/page-sitemap.xml",
					"https://blog.example.com/broken-sitemap.xml",
				}, true, nil
			},
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				switch sitemapURL {
				case "https://blog.example.com/post-sitemap.xml":
					return []string{"https://blog.example.com/a", "https://blog.example.com/b"}, nil
				case "https://blog.example.com/page-sitemap.xml":
					return []string{"https://blog.example.com/b", "https://blog.example.com/c"}, nil
				default:
					return nil, urlwatch.Errorf(urlwatch.EINVALID, "malformed XML")
				}
			},
		}

		strategy := discover.NewSitemapFallback(
			"blog", "https://blog.example.com", &mock.Fetcher{CloseFn: func() error { return nil }},
			parser, unusedExtractor(t),
		)

		urls := strategy.Discover(context.Background())
		assert.Equal(t, []string{
			"https://blog.example.com/a",
			"https://blog.example.com/b",
			"https://blog.example.com/c",
		}, urls)
	})

	t.Run("falls back to homepage when no probe yields URLs", func(t *testing.T) {
		t.Parallel()

		parser := &mock.SitemapParser{
			ParseIndexFn: func(ctx context.Context, sitemapURL string) ([]string, bool, error) {
				return nil, false, urlwatch.Errorf(urlwatch.EUNAVAILABLE, "HTTP 404")
			},
		}

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				assert.Equal(t, "https://blog.example.com", url)
				return `<a href="/post-1">one</a>`, nil
			},
			CloseFn: func() error { return nil },
		}

		extractor := &mock.LinkExtractor{
			ExtractLinksFn: func(html, baseURL string) ([]string, error) {
				assert.Equal(t, `<a href="/post-1">one</a>`, html)
				return []string{"https://blog.example.com/post-1"}, nil
			},
		}

		strategy := discover.NewSitemapFallback(
			"blog", "https://blog.example.com/", fetcher, parser, extractor,
		)

		urls := strategy.Discover(context.Background())
		assert.Equal(t, []string{"https://blog.example.com/post-1"}, urls)
	})

	t.Run("homepage fetch failure degrades to no URLs", func(t *testing.T) {
		t.Parallel()

		parser := &mock.SitemapParser{
			ParseIndexFn: func(ctx context.Context, sitemapURL string) ([]string, bool, error) {
				return nil, false, urlwatch.Errorf(urlwatch.EUNAVAILABLE, "HTTP 404")
			},
		}
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", urlwatch.Errorf(urlwatch.EUNAVAILABLE, "connection refused")
			},
			CloseFn: func() error { return nil },
		}

		strategy := discover.NewSitemapFallback(
			"blog", "https://blog.example.com", fetcher, parser,
			&mock.LinkExtractor{},
		)

		assert.Empty(t, strategy.Discover(context.Background()))
	})

	t.Run("custom sitemap paths override the defaults", func(t *testing.T) {
		t.Parallel()

		var probed []string
		parser := &mock.SitemapParser{
			ParseIndexFn: func(ctx context.Context, sitemapURL string) ([]string, bool, error) {
				probed = append(probed, sitemapURL)
				return []string{"https://blog.example.com/x"}, false, nil
			},
		}

		strategy := discover.NewSitemapFallback(
			"blog", "https://blog.example.com", &mock.Fetcher{CloseFn: func() error { return nil }},
			parser, unusedExtractor(t),
			discover.WithSitemapPaths([]string{"/news-sitemap.xml"}),
		)

		strategy.Discover(context.Background())
		assert.Equal(t, []string{"https://blog.example.com/news-sitemap.xml"}, probed)
	})

	t.Run("close releases the fetcher", func(t *testing.T) {
		t.Parallel()

		closed := false
		strategy := discover.NewSitemapFallback(
			"blog", "https://blog.example.com",
			&mock.Fetcher{CloseFn: func() error { closed = true; return nil }},
			&mock.SitemapParser{}, &mock.LinkExtractor{},
		)

		require.NoError(t, strategy.Close())
		assert.True(t, closed)
	})
}
