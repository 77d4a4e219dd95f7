package discover_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/urlwatch"
	"github.com/fwojciec/urlwatch/discover"
	"github.com/fwojciec/urlwatch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedFetcher(closed *bool) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			return "", urlwatch.Errorf(urlwatch.EUNAVAILABLE, "unexpected fetch of %s", url)
		},
		CloseFn: func() error {
			*closed = true
			return nil
		},
	}
}

func TestSitemapKeyword_Discover(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("keeps only URLs containing the keyword", func(t *testing.T) {
		t.Parallel()

		closed := false
		parser := &mock.SitemapParser{
			ParseRecentFn: func(ctx context.Context, sitemapURL string, w urlwatch.Window) ([]string, error) {
				assert.Equal(t, "https://example.com/sitemap.xml", sitemapURL)
				return []string{
					"https://example.com/data-breach-acme",
					"https://example.com/settlement-other",
					"https://example.com/new-DATA-BREACH-case",
				}, nil
			},
		}

		strategy := discover.NewSitemapKeyword(
			"classactions", "https://example.com/sitemap.xml", "data-breach",
			closedFetcher(&closed), parser,
			discover.WithKeywordClock(func() time.Time { return now }),
		)

		urls := strategy.Discover(context.Background())
		assert.Equal(t, []string{
			"https://example.com/data-breach-acme",
			"https://example.com/new-DATA-BREACH-case",
		}, urls)
	})

	t.Run("passes the last-day window to the parser", func(t *testing.T) {
		t.Parallel()

		closed := false
		var gotWindow urlwatch.Window
		parser := &mock.SitemapParser{
			ParseRecentFn: func(ctx context.Context, sitemapURL string, w urlwatch.Window) ([]string, error) {
				gotWindow = w
				return nil, nil
			},
		}

		strategy := discover.NewSitemapKeyword(
			"classactions", "https://example.com/sitemap.xml", "data-breach",
			closedFetcher(&closed), parser,
			discover.WithKeywordClock(func() time.Time { return now }),
		)

		strategy.Discover(context.Background())
		assert.Equal(t, urlwatch.LastDay(now), gotWindow)
	})

	t.Run("parse failure degrades to no URLs", func(t *testing.T) {
		t.Parallel()

		closed := false
		parser := &mock.SitemapParser{
			ParseRecentFn: func(ctx context.Context, sitemapURL string, w urlwatch.Window) ([]string, error) {
				return nil, urlwatch.Errorf(urlwatch.EUNAVAILABLE, "fetch failed")
			},
		}

		strategy := discover.NewSitemapKeyword(
			"classactions", "https://example.com/sitemap.xml", "data-breach",
			closedFetcher(&closed), parser,
		)

		assert.Empty(t, strategy.Discover(context.Background()))
	})

	t.Run("close releases the fetcher", func(t *testing.T) {
		t.Parallel()

		closed := false
		strategy := discover.NewSitemapKeyword(
			"classactions", "https://example.com/sitemap.xml", "data-breach",
			closedFetcher(&closed), &mock.SitemapParser{},
		)

		require.NoError(t, strategy.Close())
		assert.True(t, closed)
	})

	t.Run("name reports the source identifier", func(t *testing.T) {
		t.Parallel()

		closed := false
		strategy := discover.NewSitemapKeyword(
			"classactions", "https://example.com/sitemap.xml", "data-breach",
			closedFetcher(&closed), &mock.SitemapParser{},
		)

		assert.Equal(t, "classactions", strategy.Name())
	})
}
