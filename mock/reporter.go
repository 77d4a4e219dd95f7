package mock

import "github.com/fwojciec/urlwatch"

var _ urlwatch.Reporter = (*Reporter)(nil)

// Reporter is a mock implementation of urlwatch.Reporter.
type Reporter struct {
	SendReportFn func(report *urlwatch.Report) error
}

func (r *Reporter) SendReport(report *urlwatch.Report) error {
	return r.SendReportFn(report)
}
