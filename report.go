package urlwatch

import "time"

// Report is the outcome of one discovery run.
type Report struct {
	// RunID identifies the run in logs and report footers.
	RunID string

	// GeneratedAt is the wall-clock time the run finished.
	GeneratedAt time.Time

	// NewURLs maps source name to its newly admitted URLs, in admission
	// order. Sources that yielded nothing new map to an empty slice.
	NewURLs map[string][]string

	// Sources lists source names in processing order, so report output
	// is stable across runs.
	Sources []string
}

// TotalNew returns the number of new URLs across all sources.
func (r *Report) TotalNew() int {
	n := 0
	for _, urls := range r.NewURLs {
		n += len(urls)
	}
	return n
}

// Reporter delivers a run report, e.g. by email.
type Reporter interface {
	// SendReport delivers the report. A report is sent even when the
	// delta is empty, so a silent day is distinguishable from a broken run.
	SendReport(report *Report) error
}
