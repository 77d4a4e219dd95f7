// Package slog provides logging decorators for the urlwatch domain
// interfaces. Loggers are always passed explicitly; the package never
// touches the process-wide default logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/urlwatch"
)

// Ensure LoggingDiscoverer implements urlwatch.Discoverer.
var _ urlwatch.Discoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a Discoverer with operation-level logging.
type LoggingDiscoverer struct {
	next   urlwatch.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next urlwatch.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// Name delegates to the wrapped Discoverer.
func (d *LoggingDiscoverer) Name() string {
	return d.next.Name()
}

// Discover delegates to the wrapped Discoverer and logs the outcome.
func (d *LoggingDiscoverer) Discover(ctx context.Context) (urls []string) {
	defer func(begin time.Time) {
		d.logger.Info("discovery",
			"source", d.next.Name(),
			"count", len(urls),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return d.next.Discover(ctx)
}

// Close delegates to the wrapped Discoverer.
func (d *LoggingDiscoverer) Close() error {
	return d.next.Close()
}
