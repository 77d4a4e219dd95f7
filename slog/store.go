package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/urlwatch"
)

// Ensure LoggingURLStore implements urlwatch.URLStore.
var _ urlwatch.URLStore = (*LoggingURLStore)(nil)

// LoggingURLStore wraps a URLStore with mutation logging.
type LoggingURLStore struct {
	next   urlwatch.URLStore
	source string
	logger *slog.Logger
}

// NewLoggingURLStore creates a new LoggingURLStore for the named source.
func NewLoggingURLStore(next urlwatch.URLStore, source string, logger *slog.Logger) *LoggingURLStore {
	return &LoggingURLStore{next: next, source: source, logger: logger}
}

// Admit delegates to the wrapped store and logs the admission outcome.
func (s *LoggingURLStore) Admit(candidates []string) (added []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("store admission",
			"source", s.source,
			"candidates", len(candidates),
			"new", len(added),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Admit(candidates)
}

// Stats delegates to the wrapped store.
func (s *LoggingURLStore) Stats() urlwatch.StoreStats {
	return s.next.Stats()
}
