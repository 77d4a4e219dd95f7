// Package run orchestrates one discovery pass across all configured
// sources: discover, admit through the per-source store, and collect the
// delta into a report.
package run

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/urlwatch"
	"github.com/google/uuid"
)

// DiscovererFactory builds the discovery strategy for one source. The
// returned Discoverer owns its network resources; the Runner guarantees
// Close is called after the source is processed, on error paths too.
type DiscovererFactory func(src urlwatch.Source) (urlwatch.Discoverer, error)

// StoreFactory opens the store for one source.
type StoreFactory func(src urlwatch.Source) (urlwatch.URLStore, error)

// Runner processes sources sequentially, one at a time. Sources are
// independent: a discovery failure yields zero URLs for that source and
// the run continues. Store write failures are not absorbed — they are
// collected into the returned error so the caller knows the delta for
// that source was not persisted.
type Runner struct {
	sources       []urlwatch.Source
	newDiscoverer DiscovererFactory
	newStore      StoreFactory
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a Runner over the given sources.
func NewRunner(sources []urlwatch.Source, newDiscoverer DiscovererFactory, newStore StoreFactory, opts ...Option) *Runner {
	r := &Runner{
		sources:       sources,
		newDiscoverer: newDiscoverer,
		newStore:      newStore,
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one discovery pass. The returned report always covers every
// source, in configuration order; sources that failed or found nothing map
// to an empty delta. The error joins per-source store and setup failures.
func (r *Runner) Run(ctx context.Context) (*urlwatch.Report, error) {
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	logger.Info("starting discovery run", "sources", len(r.sources))

	report := &urlwatch.Report{
		RunID:   runID,
		NewURLs: make(map[string][]string, len(r.sources)),
	}
	var errs []error

	for i := range r.sources {
		src := r.sources[i]
		report.Sources = append(report.Sources, src.Name)
		report.NewURLs[src.Name] = []string{}

		added, err := r.runSource(ctx, src, logger)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(added) > 0 {
			report.NewURLs[src.Name] = added
		}
	}

	report.GeneratedAt = r.now()
	logger.Info("discovery run complete", "total_new", report.TotalNew(), "failed_sources", len(errs))

	return report, errors.Join(errs...)
}

func (r *Runner) runSource(ctx context.Context, src urlwatch.Source, logger *slog.Logger) ([]string, error) {
	logger = logger.With("source", src.Name)

	store, err := r.newStore(src)
	if err != nil {
		logger.Error("opening store failed", "err", err)
		return nil, err
	}

	discoverer, err := r.newDiscoverer(src)
	if err != nil {
		logger.Error("building discovery strategy failed", "err", err)
		return nil, err
	}

	urls := r.discover(ctx, discoverer, logger)
	logger.Info("discovery finished", "scraped", len(urls))
	if len(urls) == 0 {
		return nil, nil
	}

	added, err := store.Admit(urls)
	if err != nil {
		// A store that cannot persist must not silently report false
		// deduplication; surface the failure to the caller.
		logger.Error("admitting URLs failed", "err", err)
		return nil, err
	}

	logger.Info("admission finished", "scraped", len(urls), "new", len(added))
	return added, nil
}

// discover runs the strategy with Close guaranteed, even if it panics.
func (r *Runner) discover(ctx context.Context, d urlwatch.Discoverer, logger *slog.Logger) []string {
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("closing discovery strategy failed", "err", err)
		}
	}()
	return d.Discover(ctx)
}
