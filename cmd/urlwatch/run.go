package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fwojciec/urlwatch"
	"github.com/fwojciec/urlwatch/discover"
	"github.com/fwojciec/urlwatch/etree"
	"github.com/fwojciec/urlwatch/fs"
	"github.com/fwojciec/urlwatch/gomail"
	"github.com/fwojciec/urlwatch/goquery"
	urlwatchhttp "github.com/fwojciec/urlwatch/http"
	"github.com/fwojciec/urlwatch/run"
	urlwatchslog "github.com/fwojciec/urlwatch/slog"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	cfg := deps.Config
	logger := deps.Logger

	sendMail := !c.DryRun && !c.NoMail
	if sendMail {
		if err := cfg.ValidateMail(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", urlwatch.ErrorMessage(err))
			fmt.Fprintf(deps.Stderr, "Hint: Pass --no-mail to run without SMTP credentials\n")
			return err
		}
	}

	newDiscoverer := func(src urlwatch.Source) (urlwatch.Discoverer, error) {
		d, err := buildDiscoverer(src, cfg.Request, logger)
		if err != nil {
			return nil, err
		}
		return urlwatchslog.NewLoggingDiscoverer(d, logger), nil
	}

	newStore := func(src urlwatch.Source) (urlwatch.URLStore, error) {
		if c.DryRun {
			return urlwatchslog.NewLoggingURLStore(newMemStore(), src.Name, logger), nil
		}
		store, err := fs.NewURLStore(storePath(cfg.DataDir, src), fs.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return urlwatchslog.NewLoggingURLStore(store, src.Name, logger), nil
	}

	runner := run.NewRunner(cfg.Sources, newDiscoverer, newStore, run.WithLogger(logger))
	report, runErr := runner.Run(deps.Ctx)

	fmt.Fprintf(deps.Stdout, "%d new URLs across %d sources\n", report.TotalNew(), len(report.Sources))
	for _, name := range report.Sources {
		for _, u := range report.NewURLs[name] {
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", name, u)
		}
	}

	if sendMail {
		reporter := gomail.NewReporter(cfg.SMTP, gomail.WithLogger(logger))
		if err := reporter.SendReport(report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", urlwatch.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "report sent to %d recipients\n", len(cfg.SMTP.Recipients))
	}

	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", urlwatch.ErrorMessage(runErr))
		return runErr
	}
	return nil
}

// buildDiscoverer wires the concrete strategy for one source. The fetcher
// is owned by the strategy and released by its Close.
func buildDiscoverer(src urlwatch.Source, req urlwatch.RequestConfig, logger *slog.Logger) (urlwatch.Discoverer, error) {
	fetcher := urlwatchhttp.NewFetcher(
		urlwatchhttp.WithTimeout(req.Timeout()),
		urlwatchhttp.WithRetries(req.MaxRetries, req.RetryDelay()),
		urlwatchhttp.WithLogger(logger),
	)
	parser := etree.NewParser(fetcher, etree.WithLogger(logger))

	switch src.Kind {
	case urlwatch.KindSitemapKeyword:
		return discover.NewSitemapKeyword(src.Name, src.Endpoint, src.Keyword, fetcher, parser,
			discover.WithKeywordLogger(logger)), nil
	case urlwatch.KindSitemapFallback:
		opts := []discover.FallbackOption{discover.WithFallbackLogger(logger)}
		if len(src.SitemapPaths) > 0 {
			opts = append(opts, discover.WithSitemapPaths(src.SitemapPaths))
		}
		return discover.NewSitemapFallback(src.Name, src.Endpoint, fetcher, parser, goquery.NewExtractor(), opts...), nil
	default:
		_ = fetcher.Close()
		return nil, urlwatch.Errorf(urlwatch.EINVALID, "unknown source kind %q for %s", src.Kind, src.Name)
	}
}

func storePath(dataDir string, src urlwatch.Source) string {
	return filepath.Join(dataDir, src.Name+".json")
}

// memStore admits every normalized candidate as new without touching disk.
// Backs --dry-run.
type memStore struct {
	seen      map[string]struct{}
	createdAt time.Time
}

func newMemStore() *memStore {
	return &memStore{seen: make(map[string]struct{}), createdAt: time.Now().UTC()}
}

func (s *memStore) Admit(candidates []string) ([]string, error) {
	var added []string
	for _, c := range candidates {
		u := urlwatch.NormalizeURL(c)
		if u == "" {
			continue
		}
		if _, ok := s.seen[u]; ok {
			continue
		}
		s.seen[u] = struct{}{}
		added = append(added, u)
	}
	return added, nil
}

func (s *memStore) Stats() urlwatch.StoreStats {
	return urlwatch.StoreStats{
		TotalURLs:   len(s.seen),
		CreatedAt:   s.createdAt,
		LastUpdated: time.Now().UTC(),
	}
}
